package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/application/clinic/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// UpdateClinicGatesCommand sets either verification gate; nil leaves a
// gate unchanged.
type UpdateClinicGatesCommand struct {
	ClinicID       uint
	EmailConfirmed *bool
	AdminApproved  *bool
}

type UpdateClinicGatesUseCase struct {
	clinics clinic.ClinicRepository
	codes   ReferralCodeEnsurer
	logger  logger.Interface
}

func NewUpdateClinicGatesUseCase(clinics clinic.ClinicRepository, codes ReferralCodeEnsurer, logger logger.Interface) *UpdateClinicGatesUseCase {
	return &UpdateClinicGatesUseCase{clinics: clinics, codes: codes, logger: logger}
}

func (uc *UpdateClinicGatesUseCase) Execute(ctx context.Context, cmd UpdateClinicGatesCommand) (*dto.ClinicDetailDTO, error) {
	if cmd.EmailConfirmed == nil && cmd.AdminApproved == nil {
		return nil, errors.NewValidationError("nothing to update", "set email_confirmed or admin_approved")
	}

	c, err := uc.clinics.GetByID(ctx, cmd.ClinicID)
	if err != nil {
		uc.logger.Errorw("failed to load clinic", "error", err, "clinic_id", cmd.ClinicID)
		return nil, fmt.Errorf("failed to load clinic: %w", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("clinic not found")
	}

	changed := false
	if cmd.EmailConfirmed != nil {
		changed = c.SetEmailConfirmed(*cmd.EmailConfirmed) || changed
	}
	if cmd.AdminApproved != nil {
		changed = c.SetAdminApproved(*cmd.AdminApproved) || changed
	}

	if changed {
		if err := uc.clinics.Update(ctx, c); err != nil {
			uc.logger.Errorw("failed to update clinic gates", "error", err, "clinic_id", c.ID())
			return nil, fmt.Errorf("failed to update clinic: %w", err)
		}
		uc.logger.Infow("clinic gates updated",
			"clinic_id", c.ID(),
			"email_confirmed", c.EmailConfirmed(),
			"admin_approved", c.AdminApproved(),
			"is_verified", c.IsVerified(),
		)
	}

	if _, err := uc.codes.Execute(ctx, c); err != nil {
		uc.logger.Warnw("failed to ensure referral code", "error", err, "clinic_id", c.ID())
	}
	return dto.ToClinicDetailDTO(c), nil
}
