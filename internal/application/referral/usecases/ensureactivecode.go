package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// EnsureActiveCodeUseCase guarantees that an email-confirmed clinic has an
// active referral code. It does nothing for unconfirmed clinics or when an
// active code already exists, so repeated saves create no extra codes.
type EnsureActiveCodeUseCase struct {
	codes  clinic.ReferralCodeRepository
	minter *CodeMinter
	logger logger.Interface
}

func NewEnsureActiveCodeUseCase(codes clinic.ReferralCodeRepository, minter *CodeMinter, logger logger.Interface) *EnsureActiveCodeUseCase {
	return &EnsureActiveCodeUseCase{codes: codes, minter: minter, logger: logger}
}

// Execute returns the created code, or nil when none was needed.
func (uc *EnsureActiveCodeUseCase) Execute(ctx context.Context, c *clinic.Clinic) (*clinic.ReferralCode, error) {
	if !c.EmailConfirmed() {
		return nil, nil
	}

	has, err := uc.codes.HasActiveCode(ctx, c.ID())
	if err != nil {
		uc.logger.Errorw("failed to check active referral code", "error", err, "clinic_id", c.ID())
		return nil, fmt.Errorf("failed to check active referral code: %w", err)
	}
	if has {
		return nil, nil
	}

	return uc.minter.CreateDefaultForClinic(ctx, c)
}
