package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/infrastructure/repository/repotest"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

var (
	may2024  = time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	june2024 = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
)

func TestAIUsageRepository_GetOrCreateCurrent(t *testing.T) {
	gdb := repotest.NewDB(t)
	repo := NewAIUsageRepository(gdb, logger.NewNop())
	ctx := t.Context()

	first, err := repo.GetOrCreateCurrent(ctx, 7, june2024)
	require.NoError(t, err)
	assert.NotZero(t, first.ID())
	assert.Equal(t, 0, first.MealCount())
	assert.True(t, first.Month().Equal(june2024))

	second, err := repo.GetOrCreateCurrent(ctx, 7, june2024)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())

	var n int64
	require.NoError(t, gdb.Model(&models.AIUsageModel{}).Where("user_id = ?", 7).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestAIUsageRepository_RollsStaleRow(t *testing.T) {
	gdb := repotest.NewDB(t)
	repo := NewAIUsageRepository(gdb, logger.NewNop())
	ctx := t.Context()

	require.NoError(t, gdb.Create(&models.AIUsageModel{UserID: 3, Month: may2024, MealUsed: 3, HealthUsed: 1}).Error)

	rec, err := repo.GetOrCreateCurrent(ctx, 3, june2024)
	require.NoError(t, err)
	assert.True(t, rec.Month().Equal(june2024))
	assert.Equal(t, 0, rec.MealCount())
	assert.Equal(t, 0, rec.HealthCount())

	var stored models.AIUsageModel
	require.NoError(t, gdb.Where("user_id = ?", 3).First(&stored).Error)
	assert.Equal(t, 0, stored.MealUsed)
	assert.Equal(t, june2024.Format("2006-01-02"), stored.Month.UTC().Format("2006-01-02"))
}

func TestAIUsageRepository_Increment(t *testing.T) {
	gdb := repotest.NewDB(t)
	repo := NewAIUsageRepository(gdb, logger.NewNop())
	ctx := t.Context()

	rec, err := repo.GetOrCreateCurrent(ctx, 9, june2024)
	require.NoError(t, err)

	require.NoError(t, repo.Increment(ctx, rec.ID(), usage.ActionMeal))
	require.NoError(t, repo.Increment(ctx, rec.ID(), usage.ActionMeal))
	require.NoError(t, repo.Increment(ctx, rec.ID(), usage.ActionHealth))

	got, err := repo.GetOrCreateCurrent(ctx, 9, june2024)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MealCount())
	assert.Equal(t, 1, got.HealthCount())

	assert.ErrorIs(t, repo.Increment(ctx, rec.ID(), usage.ActionType("bogus")), usage.ErrInvalidAction)
	assert.Error(t, repo.Increment(ctx, 9999, usage.ActionMeal))
}

func TestAIUsageRepository_ResetStale(t *testing.T) {
	gdb := repotest.NewDB(t)
	repo := NewAIUsageRepository(gdb, logger.NewNop())

	require.NoError(t, gdb.Create(&models.AIUsageModel{UserID: 1, Month: may2024, MealUsed: 2, HealthUsed: 1}).Error)
	require.NoError(t, gdb.Create(&models.AIUsageModel{UserID: 2, Month: may2024, MealUsed: 1}).Error)
	require.NoError(t, gdb.Create(&models.AIUsageModel{UserID: 3, Month: june2024, MealUsed: 2}).Error)

	n, err := repo.ResetStale(t.Context(), june2024)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var rows []models.AIUsageModel
	require.NoError(t, gdb.Order("user_id").Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[0].MealUsed)
	assert.Equal(t, 0, rows[0].HealthUsed)
	assert.Equal(t, 0, rows[1].MealUsed)
	assert.Equal(t, 2, rows[2].MealUsed)
	for _, row := range rows {
		assert.Equal(t, "2024-06-01", row.Month.UTC().Format("2006-01-02"))
	}
}

func TestAIUsageRepository_LockCurrentUsesRowLock(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `ai_usage`.*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT \\* FROM `ai_usage` WHERE user_id = \\?.* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "month", "meal_used", "health_used", "created_at", "updated_at"}).
			AddRow(11, 7, june2024, 2, 0, now, now))
	mock.ExpectCommit()

	repo := NewAIUsageRepository(gdb, logger.NewNop())
	tm := db.NewTransactionManager(gdb)

	var rec *usage.Record
	err = tm.RunInTransaction(t.Context(), func(ctx context.Context) error {
		var lockErr error
		rec, lockErr = repo.LockCurrent(ctx, 7, june2024)
		return lockErr
	})
	require.NoError(t, err)
	assert.Equal(t, uint(11), rec.ID())
	assert.Equal(t, 2, rec.MealCount())
	assert.NoError(t, mock.ExpectationsWereMet())
}
