package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/fammo-app/fammo/internal/application/referral/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type TrackReferralCommand struct {
	Email        string
	ReferralCode string
}

// TrackReferralUseCase records a referral reported by a partner system:
//   - an active account is linked to the clinic as ACTIVE;
//   - an account that is not activated yet is linked as NEW;
//   - an unknown email is captured as NEW until that person signs up.
//
// Repeated calls update the same row.
type TrackReferralUseCase struct {
	resolver  *CodeResolver
	referrals clinic.ReferredUserRepository
	users     user.Repository
	logger    logger.Interface
}

func NewTrackReferralUseCase(
	resolver *CodeResolver,
	referrals clinic.ReferredUserRepository,
	users user.Repository,
	logger logger.Interface,
) *TrackReferralUseCase {
	return &TrackReferralUseCase{
		resolver:  resolver,
		referrals: referrals,
		users:     users,
		logger:    logger,
	}
}

func (uc *TrackReferralUseCase) Execute(ctx context.Context, cmd TrackReferralCommand) (*dto.ReferredUserDTO, error) {
	email := user.NormalizeEmail(cmd.Email)
	if email == "" || strings.TrimSpace(cmd.ReferralCode) == "" {
		return nil, errors.NewValidationError("Missing required fields")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.NewValidationError("Invalid email address")
	}

	rc, err := uc.resolver.Resolve(ctx, cmd.ReferralCode)
	if err != nil {
		if stderrors.Is(err, clinic.ErrReferralCodeNotFound) {
			return nil, errors.NewValidationError("Invalid referral code")
		}
		return nil, err
	}
	codeID := rc.ID()

	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to look up user", "error", err)
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	var row *clinic.ReferredUser
	if u != nil {
		row, err = uc.trackAccount(ctx, rc.ClinicID(), &codeID, u)
	} else {
		row, err = uc.trackEmail(ctx, rc.ClinicID(), &codeID, email)
	}
	if err != nil {
		uc.logger.Errorw("failed to track referral", "error", err, "clinic_id", rc.ClinicID())
		return nil, err
	}

	metrics.RecordReferralEvent("tracked")
	uc.logger.Infow("referral tracked",
		"clinic_id", rc.ClinicID(),
		"referred_user_id", row.ID(),
		"status", row.Status(),
	)
	return dto.ToReferredUserDTO(row), nil
}

func (uc *TrackReferralUseCase) trackAccount(ctx context.Context, clinicID uint, codeID *uint, u *user.User) (*clinic.ReferredUser, error) {
	status := clinic.StatusNew
	if u.IsActive() {
		status = clinic.StatusActive
	}

	row, err := uc.referrals.FindByClinicAndUser(ctx, clinicID, u.ID())
	if err != nil {
		return nil, err
	}
	if row == nil {
		return getOrCreateForUser(ctx, uc.referrals, clinicID, codeID, u.ID(), u.Email(), status)
	}

	if status == clinic.StatusActive {
		if err := row.Activate(); err != nil {
			// an operator deactivated this referral; keep their decision
			uc.logger.Infow("tracked referral left inactive", "referred_user_id", row.ID())
			return row, nil
		}
		if err := uc.referrals.Update(ctx, row); err != nil {
			return nil, err
		}
	}
	return row, nil
}

func (uc *TrackReferralUseCase) trackEmail(ctx context.Context, clinicID uint, codeID *uint, email string) (*clinic.ReferredUser, error) {
	row, err := uc.referrals.FindByClinicAndEmail(ctx, clinicID, email)
	if err != nil || row != nil {
		return row, err
	}
	row, err = clinic.NewForEmail(clinicID, codeID, email)
	if err != nil {
		return nil, err
	}
	if err := uc.referrals.Create(ctx, row); err != nil {
		if !errors.IsDuplicateError(err) {
			return nil, fmt.Errorf("failed to create referral: %w", err)
		}
		// a concurrent track for the same email won
		row, err = uc.referrals.FindByClinicAndEmail(ctx, clinicID, email)
		if err == nil && row == nil {
			err = fmt.Errorf("referral for %s vanished after duplicate insert", email)
		}
		if err != nil {
			return nil, err
		}
	}
	return row, nil
}
