package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type AIUsageRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAIUsageRepository(gdb *gorm.DB, logger logger.Interface) usage.LedgerRepository {
	return &AIUsageRepositoryImpl{db: gdb, logger: logger}
}

func (r *AIUsageRepositoryImpl) GetOrCreateCurrent(ctx context.Context, userID uint, month time.Time) (*usage.Record, error) {
	return r.getOrCreate(ctx, userID, month, false)
}

func (r *AIUsageRepositoryImpl) LockCurrent(ctx context.Context, userID uint, month time.Time) (*usage.Record, error) {
	return r.getOrCreate(ctx, userID, month, true)
}

// getOrCreate inserts a zeroed row unless one exists (concurrent inserts
// collapse on the user_id unique key), reads it back, optionally under a row
// lock, and rolls a stale row forward.
func (r *AIUsageRepositoryImpl) getOrCreate(ctx context.Context, userID uint, month time.Time, lock bool) (*usage.Record, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	seed := &models.AIUsageModel{UserID: userID, Month: month}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(seed).Error; err != nil {
		r.logger.Errorw("failed to ensure ai usage row", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to ensure ai usage row: %w", err)
	}

	q := tx.Where("user_id = ?", userID)
	if lock {
		q = q.Scopes(db.ForUpdate())
	}
	var model models.AIUsageModel
	if err := q.First(&model).Error; err != nil {
		r.logger.Errorw("failed to load ai usage row", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to load ai usage row: %w", err)
	}

	record := toUsageRecord(&model)
	if record.RollTo(month) {
		if err := tx.Model(&models.AIUsageModel{}).
			Where("id = ? AND month < ?", model.ID, month).
			Updates(map[string]any{
				"month":       month,
				"meal_used":   0,
				"health_used": 0,
				"updated_at":  time.Now().UTC(),
			}).Error; err != nil {
			r.logger.Errorw("failed to roll ai usage row", "error", err, "user_id", userID)
			return nil, fmt.Errorf("failed to roll ai usage row: %w", err)
		}
	}
	return record, nil
}

func (r *AIUsageRepositoryImpl) Increment(ctx context.Context, recordID uint, action usage.ActionType) error {
	column, err := usageColumn(action)
	if err != nil {
		return err
	}
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AIUsageModel{}).
		Where("id = ?", recordID).
		Updates(map[string]any{
			column:       gorm.Expr(column + " + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to increment ai usage", "error", result.Error, "record_id", recordID, "action", action)
		return fmt.Errorf("failed to increment ai usage: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("ai usage row %d not found", recordID)
	}
	return nil
}

func (r *AIUsageRepositoryImpl) ResetStale(ctx context.Context, month time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.AIUsageModel{}).
		Where("month < ?", month).
		Updates(map[string]any{
			"month":       month,
			"meal_used":   0,
			"health_used": 0,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to reset stale ai usage", "error", result.Error)
		return 0, fmt.Errorf("failed to reset stale ai usage: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func usageColumn(action usage.ActionType) (string, error) {
	switch action {
	case usage.ActionMeal:
		return "meal_used", nil
	case usage.ActionHealth:
		return "health_used", nil
	default:
		return "", usage.ErrInvalidAction
	}
}

func toUsageRecord(m *models.AIUsageModel) *usage.Record {
	month := time.Date(m.Month.Year(), m.Month.Month(), m.Month.Day(), 0, 0, 0, 0, time.UTC)
	return usage.ReconstructRecord(m.ID, m.UserID, month, m.MealUsed, m.HealthUsed, m.UpdatedAt)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
