package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

func TestGormAutoMigrateStrategy(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	s := NewGormAutoMigrateStrategy(logger.NewNop())
	assert.Equal(t, "gorm_auto_migrate", s.GetName())
	require.NoError(t, s.Migrate(db))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&models.AIUsageModel{}, "uk_ai_usage_user"))
	assert.True(t, db.Migrator().HasIndex(&models.ReferredUserModel{}, "uk_referred_clinic_user"))
	assert.True(t, db.Migrator().HasIndex(&models.ReferredUserModel{}, "uk_referred_clinic_pending"))
}

func TestEmbeddedScriptsPresent(t *testing.T) {
	entries, err := embeddedScripts.ReadDir(embeddedDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_initial_schema.sql", entries[0].Name())
}
