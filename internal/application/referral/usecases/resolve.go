package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// CodeResolver looks up active codes and the clinic behind them.
type CodeResolver struct {
	codes   clinic.ReferralCodeRepository
	clinics clinic.ClinicRepository
	logger  logger.Interface
}

func NewCodeResolver(codes clinic.ReferralCodeRepository, clinics clinic.ClinicRepository, logger logger.Interface) *CodeResolver {
	return &CodeResolver{codes: codes, clinics: clinics, logger: logger}
}

// Resolve returns the active code or clinic.ErrReferralCodeNotFound.
func (r *CodeResolver) Resolve(ctx context.Context, raw string) (*clinic.ReferralCode, error) {
	code := clinic.NormalizeCode(raw)
	if !clinic.ValidCode(code) {
		return nil, clinic.ErrReferralCodeNotFound
	}
	rc, err := r.codes.GetActiveByCode(ctx, code)
	if err != nil {
		r.logger.Errorw("failed to resolve referral code", "error", err, "code", code)
		return nil, fmt.Errorf("failed to resolve referral code: %w", err)
	}
	if rc == nil {
		return nil, clinic.ErrReferralCodeNotFound
	}
	return rc, nil
}

// ResolveAccepting is Resolve that also requires the clinic to be
// email-confirmed.
func (r *CodeResolver) ResolveAccepting(ctx context.Context, raw string) (*clinic.ReferralCode, *clinic.Clinic, error) {
	rc, err := r.Resolve(ctx, raw)
	if err != nil {
		return nil, nil, err
	}
	c, err := r.clinics.GetByID(ctx, rc.ClinicID())
	if err != nil {
		r.logger.Errorw("failed to load clinic", "error", err, "clinic_id", rc.ClinicID())
		return nil, nil, fmt.Errorf("failed to load clinic: %w", err)
	}
	if c == nil {
		return nil, nil, clinic.ErrClinicNotFound
	}
	if !c.IsPubliclyListed() {
		return nil, nil, clinic.ErrClinicNotAcceptingReferral
	}
	return rc, c, nil
}
