package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/shared"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type AttachReferralCommand struct {
	UserID       uint
	Email        string
	ReferralCode string
	VisitorToken string
}

// AttachReferralOnRegistrationUseCase binds a freshly registered user to the
// clinic that referred them. A parked visit is reconciled in place so the
// anonymous row becomes the user's row; otherwise the code from the signup
// form is used. The referral stays NEW until the account is activated.
type AttachReferralOnRegistrationUseCase struct {
	resolver  *CodeResolver
	referrals clinic.ReferredUserRepository
	pending   shared.PendingStore
	settings  Settings
	logger    logger.Interface
}

func NewAttachReferralOnRegistrationUseCase(
	resolver *CodeResolver,
	referrals clinic.ReferredUserRepository,
	pending shared.PendingStore,
	settings Settings,
	logger logger.Interface,
) *AttachReferralOnRegistrationUseCase {
	return &AttachReferralOnRegistrationUseCase{
		resolver:  resolver,
		referrals: referrals,
		pending:   pending,
		settings:  settings,
		logger:    logger,
	}
}

// Execute returns the referral row, or nil when the registration carried no
// usable referral.
func (uc *AttachReferralOnRegistrationUseCase) Execute(ctx context.Context, cmd AttachReferralCommand) (*clinic.ReferredUser, error) {
	row, err := uc.fromVisit(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if row == nil {
		if row, err = uc.fromCode(ctx, cmd); err != nil || row == nil {
			return nil, err
		}
	}

	if err := uc.pending.Put(ctx, constants.PendingReferral, pendingKey(cmd.UserID), pendingReferral{
		ClinicID:       row.ClinicID(),
		ReferredUserID: row.ID(),
	}, uc.settings.pendingTTL()); err != nil {
		return nil, fmt.Errorf("failed to park pending referral: %w", err)
	}

	metrics.RecordReferralEvent("registration")
	uc.logger.Infow("referral attached to registration",
		"user_id", cmd.UserID,
		"clinic_id", row.ClinicID(),
		"referred_user_id", row.ID(),
	)
	return row, nil
}

// fromVisit reconciles the anonymous row recorded by the landing page. A
// visit for a different code than the one typed at signup is ignored.
func (uc *AttachReferralOnRegistrationUseCase) fromVisit(ctx context.Context, cmd AttachReferralCommand) (*clinic.ReferredUser, error) {
	if cmd.VisitorToken == "" {
		return nil, nil
	}
	var visit visitRecord
	if err := uc.pending.Take(ctx, constants.PendingReferralVisit, cmd.VisitorToken, &visit); err != nil {
		if stderrors.Is(err, shared.ErrPendingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read referral visit: %w", err)
	}
	if cmd.ReferralCode != "" && clinic.NormalizeCode(cmd.ReferralCode) != visit.ReferralCode {
		return nil, nil
	}

	existing, err := uc.referrals.FindByClinicAndUser(ctx, visit.ClinicID, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	row, err := uc.referrals.GetByID(ctx, visit.ReferredUserID)
	if err != nil {
		return nil, err
	}
	if row == nil || (row.HasUser() && *row.UserID() != cmd.UserID) {
		return nil, nil
	}
	if err := row.MarkRegistered(cmd.UserID, cmd.Email, nil); err != nil {
		return nil, err
	}
	if err := uc.referrals.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to reconcile referral visit: %w", err)
	}
	return row, nil
}

// fromCode gets or creates the (clinic, user) row for the signup code.
// A row captured earlier by email for the same clinic is adopted.
func (uc *AttachReferralOnRegistrationUseCase) fromCode(ctx context.Context, cmd AttachReferralCommand) (*clinic.ReferredUser, error) {
	if cmd.ReferralCode == "" {
		return nil, nil
	}
	rc, err := uc.resolver.Resolve(ctx, cmd.ReferralCode)
	if err != nil {
		return nil, err
	}
	codeID := rc.ID()

	row, err := uc.referrals.FindByClinicAndUser(ctx, rc.ClinicID(), cmd.UserID)
	if err != nil || row != nil {
		return row, err
	}

	row, err = uc.referrals.FindByClinicAndEmail(ctx, rc.ClinicID(), cmd.Email)
	if err != nil {
		return nil, err
	}
	if row != nil {
		if err := row.MarkRegistered(cmd.UserID, cmd.Email, &codeID); err != nil {
			return nil, err
		}
		if err := uc.referrals.Update(ctx, row); err != nil {
			return nil, fmt.Errorf("failed to attach captured referral: %w", err)
		}
		return row, nil
	}

	return getOrCreateForUser(ctx, uc.referrals, rc.ClinicID(), &codeID, cmd.UserID, cmd.Email, clinic.StatusNew)
}

// getOrCreateForUser inserts a (clinic, user) row and falls back to the
// existing one when the unique key says another request got there first.
func getOrCreateForUser(
	ctx context.Context,
	referrals clinic.ReferredUserRepository,
	clinicID uint,
	codeID *uint,
	userID uint,
	email string,
	status clinic.Status,
) (*clinic.ReferredUser, error) {
	row, err := clinic.NewForUser(clinicID, codeID, userID, email, status)
	if err != nil {
		return nil, err
	}
	if err := referrals.Create(ctx, row); err != nil {
		if !errors.IsDuplicateError(err) {
			return nil, fmt.Errorf("failed to create referral: %w", err)
		}
		existing, err := referrals.FindByClinicAndUser(ctx, clinicID, userID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, clinic.ErrReferredUserNotFound
		}
		return existing, nil
	}
	return row, nil
}

func pendingKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
