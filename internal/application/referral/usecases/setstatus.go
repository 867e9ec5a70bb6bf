package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// SetReferralStatusCommand is the admin bulk action over referral rows.
type SetReferralStatusCommand struct {
	IDs    []uint
	Status string
}

type SetReferralStatusResult struct {
	Updated int `json:"updated"`
}

type SetReferralStatusUseCase struct {
	tx        db.Transactor
	referrals clinic.ReferredUserRepository
	logger    logger.Interface
}

func NewSetReferralStatusUseCase(tx db.Transactor, referrals clinic.ReferredUserRepository, logger logger.Interface) *SetReferralStatusUseCase {
	return &SetReferralStatusUseCase{tx: tx, referrals: referrals, logger: logger}
}

func (uc *SetReferralStatusUseCase) Execute(ctx context.Context, cmd SetReferralStatusCommand) (*SetReferralStatusResult, error) {
	status := clinic.Status(strings.ToUpper(strings.TrimSpace(cmd.Status)))
	if status != clinic.StatusActive && status != clinic.StatusInactive {
		return nil, errors.NewValidationError("status must be ACTIVE or INACTIVE")
	}
	if len(cmd.IDs) == 0 {
		return nil, errors.NewValidationError("no referrals selected")
	}

	updated := 0
	err := uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		rows, err := uc.referrals.ListByIDs(txCtx, cmd.IDs)
		if err != nil {
			return fmt.Errorf("failed to load referrals: %w", err)
		}
		for _, row := range rows {
			if row.Status() == status {
				continue
			}
			if err := row.ForceStatus(status); err != nil {
				return err
			}
			if err := uc.referrals.Update(txCtx, row); err != nil {
				return fmt.Errorf("failed to update referral %d: %w", row.ID(), err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to set referral status", "error", err, "status", status)
		return nil, err
	}

	uc.logger.Infow("referral status set", "status", status, "requested", len(cmd.IDs), "updated", updated)
	return &SetReferralStatusResult{Updated: updated}, nil
}
