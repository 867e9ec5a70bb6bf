package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/fammo-app/fammo/internal/application/clinic/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/goroutine"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// ConfirmationTTL is how long a clinic confirmation link stays valid.
const ConfirmationTTL = 24 * time.Hour

type ConfirmClinicEmailCommand struct {
	ClinicID uint
	Token    string
}

type ConfirmClinicEmailResult struct {
	Clinic           *dto.ClinicDetailDTO `json:"clinic"`
	AlreadyConfirmed bool                 `json:"already_confirmed"`
	ReferralCode     string               `json:"referral_code,omitempty"`
}

type ConfirmClinicEmailUseCase struct {
	clinics clinic.ClinicRepository
	tokens  TokenGenerator
	codes   ReferralCodeEnsurer
	email   EmailService
	now     func() time.Time
	logger  logger.Interface
}

func NewConfirmClinicEmailUseCase(
	clinics clinic.ClinicRepository,
	tokens TokenGenerator,
	codes ReferralCodeEnsurer,
	email EmailService,
	logger logger.Interface,
) *ConfirmClinicEmailUseCase {
	return &ConfirmClinicEmailUseCase{
		clinics: clinics,
		tokens:  tokens,
		codes:   codes,
		email:   email,
		now:     biztime.NowUTC,
		logger:  logger,
	}
}

func (uc *ConfirmClinicEmailUseCase) Execute(ctx context.Context, cmd ConfirmClinicEmailCommand) (*ConfirmClinicEmailResult, error) {
	if cmd.ClinicID == 0 || cmd.Token == "" {
		return nil, errors.NewValidationError("Invalid confirmation link")
	}

	c, err := uc.clinics.GetByID(ctx, cmd.ClinicID)
	if err != nil {
		uc.logger.Errorw("failed to load clinic", "error", err, "clinic_id", cmd.ClinicID)
		return nil, fmt.Errorf("failed to load clinic: %w", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("clinic not found")
	}

	changed, err := c.ConfirmEmail(uc.tokens.Hash(cmd.Token), uc.now(), ConfirmationTTL)
	if err != nil {
		if stderrors.Is(err, clinic.ErrInvalidConfirmationToken) || stderrors.Is(err, clinic.ErrConfirmationTokenExpired) {
			uc.logger.Infow("clinic confirmation rejected", "clinic_id", c.ID(), "reason", err)
			return nil, errors.NewValidationError("Invalid or expired confirmation link")
		}
		return nil, err
	}
	if !changed {
		return &ConfirmClinicEmailResult{Clinic: dto.ToClinicDetailDTO(c), AlreadyConfirmed: true}, nil
	}

	if err := uc.clinics.Update(ctx, c); err != nil {
		uc.logger.Errorw("failed to save clinic confirmation", "error", err, "clinic_id", c.ID())
		return nil, fmt.Errorf("failed to confirm clinic: %w", err)
	}

	result := &ConfirmClinicEmailResult{Clinic: dto.ToClinicDetailDTO(c)}
	code, err := uc.codes.Execute(ctx, c)
	if err != nil {
		uc.logger.Warnw("failed to ensure referral code after confirmation", "error", err, "clinic_id", c.ID())
	} else if code != nil {
		result.ReferralCode = code.Code()
	}

	name, email, city := c.Name(), c.Email(), c.City()
	goroutine.Go(uc.logger, "clinic-admin-notify", func() error {
		return uc.email.NotifyAdminsClinicConfirmed(name, email, city)
	})

	uc.logger.Infow("clinic email confirmed", "clinic_id", c.ID())
	return result, nil
}
