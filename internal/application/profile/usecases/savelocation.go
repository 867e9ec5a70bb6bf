package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/fammo-app/fammo/internal/domain/geo"
	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// SaveLocationCommand records the user's location consent. Coordinates are
// ignored when Consent is false.
type SaveLocationCommand struct {
	UserID    uint
	Consent   bool
	Latitude  *float64
	Longitude *float64
}

type SaveLocationResult struct {
	Consent   bool       `json:"consent"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type SaveLocationUseCase struct {
	profiles profile.Repository
	now      func() time.Time
	logger   logger.Interface
}

func NewSaveLocationUseCase(profiles profile.Repository, logger logger.Interface) *SaveLocationUseCase {
	return &SaveLocationUseCase{profiles: profiles, now: biztime.NowUTC, logger: logger}
}

func (uc *SaveLocationUseCase) Execute(ctx context.Context, cmd SaveLocationCommand) (*SaveLocationResult, error) {
	p, err := uc.profiles.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to load profile", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil {
		return nil, errors.NewNotFoundError("Profile not found")
	}

	if err := p.SaveLocation(cmd.Consent, cmd.Latitude, cmd.Longitude, uc.now()); err != nil {
		switch {
		case stderrors.Is(err, profile.ErrConsentRequiresCoordinates):
			return nil, errors.NewValidationError("Latitude and longitude are required when consent is true")
		case stderrors.Is(err, geo.ErrInvalidCoordinates):
			return nil, errors.NewValidationError("Invalid coordinates")
		}
		return nil, err
	}

	if err := uc.profiles.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to save location", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to save location: %w", err)
	}

	uc.logger.Infow("profile location saved", "user_id", cmd.UserID, "consent", p.LocationConsent())
	return &SaveLocationResult{
		Consent:   p.LocationConsent(),
		Latitude:  p.Latitude(),
		Longitude: p.Longitude(),
		UpdatedAt: p.LocationUpdatedAt(),
	}, nil
}
