package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// GormAutoMigrateStrategy derives the schema from the persistence models.
// It is meant for local development and test databases.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{logger: log.With("component", "migration.automigrate")}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	all := models.All()
	s.logger.Infow("running gorm auto-migrate", "models", len(all))
	if err := db.AutoMigrate(all...); err != nil {
		s.logger.Errorw("auto-migrate failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
