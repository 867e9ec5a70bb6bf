package usecases

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"

	"github.com/fammo-app/fammo/internal/application/referral/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/shared"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type RecordReferralVisitCommand struct {
	Code string
	// VisitorToken is the token from an earlier visit, if the client kept one.
	VisitorToken string
}

// RecordReferralVisitUseCase serves the referral landing: it resolves the
// code, records an anonymous NEW referral for the visitor and parks the visit
// so registration can reconcile the same row later.
type RecordReferralVisitUseCase struct {
	resolver  *CodeResolver
	referrals clinic.ReferredUserRepository
	pending   shared.PendingStore
	settings  Settings
	logger    logger.Interface
}

func NewRecordReferralVisitUseCase(
	resolver *CodeResolver,
	referrals clinic.ReferredUserRepository,
	pending shared.PendingStore,
	settings Settings,
	logger logger.Interface,
) *RecordReferralVisitUseCase {
	return &RecordReferralVisitUseCase{
		resolver:  resolver,
		referrals: referrals,
		pending:   pending,
		settings:  settings,
		logger:    logger,
	}
}

func (uc *RecordReferralVisitUseCase) Execute(ctx context.Context, cmd RecordReferralVisitCommand) (*dto.LandingDTO, error) {
	rc, c, err := uc.resolver.ResolveAccepting(ctx, cmd.Code)
	if err != nil {
		if stderrors.Is(err, clinic.ErrReferralCodeNotFound) ||
			stderrors.Is(err, clinic.ErrClinicNotFound) ||
			stderrors.Is(err, clinic.ErrClinicNotAcceptingReferral) {
			return nil, errors.NewNotFoundError("referral code not found")
		}
		return nil, err
	}

	token := cmd.VisitorToken
	if _, err := uuid.Parse(token); err != nil {
		token = uuid.NewString()
	}

	landing := &dto.LandingDTO{
		VisitorToken: token,
		ReferralCode: rc.Code(),
		SignupURL:    dto.SignupURL(uc.settings.SiteURL, rc.Code()),
		ClinicID:     c.ID(),
		ClinicName:   c.Name(),
		ClinicSlug:   c.Slug(),
		City:         c.City(),
		IsVerified:   c.IsVerified(),
		LogoURL:      c.LogoURL(),
	}

	// attribution problems never block the landing page
	if err := uc.record(ctx, rc, token); err != nil {
		uc.logger.Warnw("failed to record referral visit", "error", err, "code", rc.Code(), "clinic_id", c.ID())
	}
	return landing, nil
}

func (uc *RecordReferralVisitUseCase) record(ctx context.Context, rc *clinic.ReferralCode, token string) error {
	row, err := uc.referrals.FindByClinicAndVisitor(ctx, rc.ClinicID(), token)
	if err != nil {
		return err
	}
	if row == nil {
		codeID := rc.ID()
		row, err = clinic.NewVisit(rc.ClinicID(), &codeID, token)
		if err != nil {
			return err
		}
		if err := uc.referrals.Create(ctx, row); err != nil {
			if !errors.IsDuplicateError(err) {
				return err
			}
			// a concurrent request for the same visitor won
			if row, err = uc.referrals.FindByClinicAndVisitor(ctx, rc.ClinicID(), token); err != nil || row == nil {
				return err
			}
		} else {
			metrics.RecordReferralEvent("visit")
		}
	}

	return uc.pending.Put(ctx, constants.PendingReferralVisit, token, visitRecord{
		ReferralCode:   rc.Code(),
		ClinicID:       rc.ClinicID(),
		ReferredUserID: row.ID(),
	}, uc.settings.pendingTTL())
}
