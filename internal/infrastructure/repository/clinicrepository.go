package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/mappers"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type ClinicRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ClinicMapper
	logger logger.Interface
}

func NewClinicRepository(gdb *gorm.DB, logger logger.Interface) clinic.ClinicRepository {
	return &ClinicRepositoryImpl{
		db:     gdb,
		mapper: mappers.NewClinicMapper(),
		logger: logger,
	}
}

func (r *ClinicRepositoryImpl) Create(ctx context.Context, c *clinic.Clinic) error {
	model := r.mapper.ToModel(c)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("clinic already exists", c.Name())
		}
		r.logger.Errorw("failed to create clinic", "error", err, "name", c.Name())
		return fmt.Errorf("failed to create clinic: %w", err)
	}
	c.SetID(model.ID)
	return nil
}

// Update saves all columns, so both gates and is_verified land in one statement.
func (r *ClinicRepositoryImpl) Update(ctx context.Context, c *clinic.Clinic) error {
	model := r.mapper.ToModel(c)
	result := db.GetTxFromContext(ctx, r.db).Save(model)
	if result.Error != nil {
		r.logger.Errorw("failed to update clinic", "error", result.Error, "clinic_id", c.ID())
		return fmt.Errorf("failed to update clinic: %w", result.Error)
	}
	return nil
}

func (r *ClinicRepositoryImpl) GetByID(ctx context.Context, id uint) (*clinic.Clinic, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ClinicRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*clinic.Clinic, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *ClinicRepositoryImpl) GetByOwner(ctx context.Context, userID uint) (*clinic.Clinic, error) {
	return r.first(ctx, "owner_user_id = ?", userID)
}

func (r *ClinicRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.ClinicModel{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return n > 0, nil
}

func (r *ClinicRepositoryImpl) ListSearchable(ctx context.Context) ([]*clinic.Clinic, error) {
	return r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Scopes(publiclyListed).
			Where("latitude IS NOT NULL AND longitude IS NOT NULL")
	})
}

func (r *ClinicRepositoryImpl) ListByCity(ctx context.Context, city string) ([]*clinic.Clinic, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(city)) + "%"
	return r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Scopes(publiclyListed).
			Where("LOWER(city) LIKE ?", pattern).
			Order("name ASC")
	})
}

func (r *ClinicRepositoryImpl) ListForGeocoding(ctx context.Context, force bool, limit int) ([]*clinic.Clinic, error) {
	return r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("(address <> '' OR city <> '')")
		if !force {
			tx = tx.Where("(latitude IS NULL OR longitude IS NULL)")
		}
		tx = tx.Order("id ASC")
		if limit > 0 {
			tx = tx.Limit(limit)
		}
		return tx
	})
}

func (r *ClinicRepositoryImpl) ListConfirmedWithoutActiveCode(ctx context.Context) ([]*clinic.Clinic, error) {
	return r.find(ctx, func(tx *gorm.DB) *gorm.DB {
		active := r.db.Session(&gorm.Session{NewDB: true}).
			Model(&models.ReferralCodeModel{}).
			Select("clinic_id").
			Where("is_active = ?", true)
		return tx.Where("email_confirmed = ?", true).
			Where("id NOT IN (?)", active).
			Order("id ASC")
	})
}

func publiclyListed(tx *gorm.DB) *gorm.DB {
	return tx.Where("email_confirmed = ? AND admin_approved = ?", true, true)
}

func (r *ClinicRepositoryImpl) first(ctx context.Context, query string, arg any) (*clinic.Clinic, error) {
	var model models.ClinicModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get clinic", "error", err)
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *ClinicRepositoryImpl) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*clinic.Clinic, error) {
	var ms []*models.ClinicModel
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.ClinicModel{}).Scopes(scope).Find(&ms).Error; err != nil {
		r.logger.Errorw("failed to list clinics", "error", err)
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return r.mapper.ToEntities(ms), nil
}
