package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type ProfileRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewProfileRepository(gdb *gorm.DB, logger logger.Interface) profile.Repository {
	return &ProfileRepositoryImpl{db: gdb, logger: logger}
}

func (r *ProfileRepositoryImpl) Create(ctx context.Context, p *profile.Profile) error {
	model := toProfileModel(p)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create profile", "error", err, "user_id", p.UserID())
		return fmt.Errorf("failed to create profile: %w", err)
	}
	p.SetID(model.ID)
	return nil
}

// Update writes consent and both coordinates in the same statement so a
// reader never sees consent without coordinates.
func (r *ProfileRepositoryImpl) Update(ctx context.Context, p *profile.Profile) error {
	model := toProfileModel(p)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.ProfileModel{}).Where("id = ?", p.ID()).Updates(map[string]any{
		"first_name":          model.FirstName,
		"last_name":           model.LastName,
		"city":                model.City,
		"plan_id":             model.PlanID,
		"latitude":            model.Latitude,
		"longitude":           model.Longitude,
		"location_consent":    model.LocationConsent,
		"location_updated_at": model.LocationUpdatedAt,
		"updated_at":          model.UpdatedAt,
	})
	if result.Error != nil {
		r.logger.Errorw("failed to update profile", "error", result.Error, "profile_id", p.ID())
		return fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}

func (r *ProfileRepositoryImpl) GetByUserID(ctx context.Context, userID uint) (*profile.Profile, error) {
	var model models.ProfileModel
	if err := db.GetTxFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return toProfile(&model), nil
}

func (r *ProfileRepositoryImpl) ListSharingLocation(ctx context.Context) ([]*profile.Profile, error) {
	var ms []models.ProfileModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("location_consent = ? AND latitude IS NOT NULL AND longitude IS NOT NULL", true).
		Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list located profiles: %w", err)
	}
	out := make([]*profile.Profile, 0, len(ms))
	for i := range ms {
		out = append(out, toProfile(&ms[i]))
	}
	return out, nil
}

func toProfileModel(p *profile.Profile) *models.ProfileModel {
	return &models.ProfileModel{
		ID:                p.ID(),
		UserID:            p.UserID(),
		FirstName:         p.FirstName(),
		LastName:          p.LastName(),
		City:              p.City(),
		PlanID:            p.PlanID(),
		Latitude:          p.Latitude(),
		Longitude:         p.Longitude(),
		LocationConsent:   p.LocationConsent(),
		LocationUpdatedAt: p.LocationUpdatedAt(),
		CreatedAt:         p.CreatedAt(),
		UpdatedAt:         p.UpdatedAt(),
	}
}

func toProfile(m *models.ProfileModel) *profile.Profile {
	return profile.ReconstructProfile(profile.State{
		ID:                m.ID,
		UserID:            m.UserID,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		City:              m.City,
		PlanID:            m.PlanID,
		Latitude:          m.Latitude,
		Longitude:         m.Longitude,
		LocationConsent:   m.LocationConsent,
		LocationUpdatedAt: m.LocationUpdatedAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	})
}
