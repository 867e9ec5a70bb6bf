package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/shared"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// ActivateReferralUseCase consumes the referral parked at registration and
// moves it to ACTIVE once the account is activated.
type ActivateReferralUseCase struct {
	referrals clinic.ReferredUserRepository
	pending   shared.PendingStore
	logger    logger.Interface
}

func NewActivateReferralUseCase(
	referrals clinic.ReferredUserRepository,
	pending shared.PendingStore,
	logger logger.Interface,
) *ActivateReferralUseCase {
	return &ActivateReferralUseCase{referrals: referrals, pending: pending, logger: logger}
}

// Execute returns the activated row, or nil when the user was not referred.
func (uc *ActivateReferralUseCase) Execute(ctx context.Context, userID uint) (*clinic.ReferredUser, error) {
	var parked pendingReferral
	if err := uc.pending.Take(ctx, constants.PendingReferral, pendingKey(userID), &parked); err != nil {
		if stderrors.Is(err, shared.ErrPendingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pending referral: %w", err)
	}

	row, err := uc.referrals.GetByID(ctx, parked.ReferredUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load referral: %w", err)
	}
	if row == nil {
		// fall back to the natural key in case the row was recreated
		if row, err = uc.referrals.FindByClinicAndUser(ctx, parked.ClinicID, userID); err != nil {
			return nil, fmt.Errorf("failed to load referral: %w", err)
		}
	}
	if row == nil {
		return nil, clinic.ErrReferredUserNotFound
	}

	if err := row.Activate(); err != nil {
		return nil, err
	}
	if err := uc.referrals.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to activate referral: %w", err)
	}

	metrics.RecordReferralEvent("activation")
	uc.logger.Infow("referral activated", "user_id", userID, "clinic_id", row.ClinicID(), "referred_user_id", row.ID())
	return row, nil
}
