package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/mappers"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type ReferralCodeRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewReferralCodeRepository(gdb *gorm.DB, logger logger.Interface) clinic.ReferralCodeRepository {
	return &ReferralCodeRepositoryImpl{db: gdb, logger: logger}
}

// Create returns the raw driver error on a code collision so callers can
// detect it with errors.IsDuplicateError and try the next candidate.
func (r *ReferralCodeRepositoryImpl) Create(ctx context.Context, code *clinic.ReferralCode) error {
	model := mappers.ReferralCodeToModel(code)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create referral code %q: %w", code.Code(), err)
	}
	code.SetID(model.ID)
	return nil
}

func (r *ReferralCodeRepositoryImpl) Update(ctx context.Context, code *clinic.ReferralCode) error {
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.ReferralCodeModel{}).
		Where("id = ?", code.ID()).
		Update("is_active", code.IsActive()).Error; err != nil {
		r.logger.Errorw("failed to update referral code", "error", err, "code_id", code.ID())
		return fmt.Errorf("failed to update referral code: %w", err)
	}
	return nil
}

func (r *ReferralCodeRepositoryImpl) GetByID(ctx context.Context, id uint) (*clinic.ReferralCode, error) {
	var model models.ReferralCodeModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get referral code: %w", err)
	}
	return mappers.ReferralCodeToEntity(&model), nil
}

func (r *ReferralCodeRepositoryImpl) GetActiveByCode(ctx context.Context, code string) (*clinic.ReferralCode, error) {
	var model models.ReferralCodeModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("code = ? AND is_active = ?", clinic.NormalizeCode(code), true).
		First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve referral code: %w", err)
	}
	return mappers.ReferralCodeToEntity(&model), nil
}

func (r *ReferralCodeRepositoryImpl) HasActiveCode(ctx context.Context, clinicID uint) (bool, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.ReferralCodeModel{}).
		Where("clinic_id = ? AND is_active = ?", clinicID, true).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to check referral codes: %w", err)
	}
	return n > 0, nil
}

func (r *ReferralCodeRepositoryImpl) ListByClinic(ctx context.Context, clinicID uint) ([]*clinic.ReferralCode, error) {
	var ms []models.ReferralCodeModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("clinic_id = ?", clinicID).
		Order("created_at ASC, id ASC").
		Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list referral codes: %w", err)
	}
	out := make([]*clinic.ReferralCode, 0, len(ms))
	for i := range ms {
		out = append(out, mappers.ReferralCodeToEntity(&ms[i]))
	}
	return out, nil
}
