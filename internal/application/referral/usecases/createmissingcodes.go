package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// CreateMissingReferralCodesUseCase back-fills codes for confirmed clinics
// that have none. A failing clinic is logged and skipped.
type CreateMissingReferralCodesUseCase struct {
	clinics clinic.ClinicRepository
	minter  *CodeMinter
	logger  logger.Interface
}

func NewCreateMissingReferralCodesUseCase(
	clinics clinic.ClinicRepository,
	minter *CodeMinter,
	logger logger.Interface,
) *CreateMissingReferralCodesUseCase {
	return &CreateMissingReferralCodesUseCase{clinics: clinics, minter: minter, logger: logger}
}

// Execute returns the number of codes created.
func (uc *CreateMissingReferralCodesUseCase) Execute(ctx context.Context) (int, error) {
	clinics, err := uc.clinics.ListConfirmedWithoutActiveCode(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list clinics without referral code", "error", err)
		return 0, fmt.Errorf("failed to list clinics without referral code: %w", err)
	}

	created := 0
	for _, c := range clinics {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if _, err := uc.minter.CreateDefaultForClinic(ctx, c); err != nil {
			uc.logger.Warnw("failed to create referral code", "error", err, "clinic_id", c.ID())
			continue
		}
		created++
	}

	uc.logger.Infow("missing referral codes created", "created", created, "candidates", len(clinics))
	return created, nil
}
