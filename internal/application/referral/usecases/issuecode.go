package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/fammo-app/fammo/internal/application/referral/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// IssueReferralCodeCommand issues an extra code for the owner's clinic.
// An empty Code mints a default one.
type IssueReferralCodeCommand struct {
	OwnerUserID uint
	Code        string
}

type IssueReferralCodeUseCase struct {
	clinics  clinic.ClinicRepository
	codes    clinic.ReferralCodeRepository
	minter   *CodeMinter
	settings Settings
	logger   logger.Interface
}

func NewIssueReferralCodeUseCase(
	clinics clinic.ClinicRepository,
	codes clinic.ReferralCodeRepository,
	minter *CodeMinter,
	settings Settings,
	logger logger.Interface,
) *IssueReferralCodeUseCase {
	return &IssueReferralCodeUseCase{
		clinics:  clinics,
		codes:    codes,
		minter:   minter,
		settings: settings,
		logger:   logger,
	}
}

func (uc *IssueReferralCodeUseCase) Execute(ctx context.Context, cmd IssueReferralCodeCommand) (*dto.ReferralCodeDTO, error) {
	c, err := ownedClinic(ctx, uc.clinics, cmd.OwnerUserID, uc.logger)
	if err != nil {
		return nil, err
	}
	if !c.EmailConfirmed() {
		return nil, errors.NewValidationError("confirm the clinic email before issuing referral codes")
	}

	if strings.TrimSpace(cmd.Code) == "" {
		code, err := uc.minter.CreateDefaultForClinic(ctx, c)
		if err != nil {
			if stderrors.Is(err, clinic.ErrReferralCodeExhausted) {
				return nil, errors.NewConflictError("could not allocate a unique referral code, please try again")
			}
			return nil, err
		}
		return dto.ToReferralCodeDTO(code, uc.settings.SiteURL), nil
	}

	code, err := clinic.NewReferralCode(c.ID(), cmd.Code)
	if err != nil {
		return nil, errors.NewValidationError("invalid referral code", "use lowercase letters, digits and single dashes")
	}
	if err := uc.codes.Create(ctx, code); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("referral code already taken")
		}
		uc.logger.Errorw("failed to create referral code", "error", err, "clinic_id", c.ID())
		return nil, fmt.Errorf("failed to create referral code: %w", err)
	}
	metrics.RecordReferralCodeIssued()

	uc.logger.Infow("custom referral code issued", "clinic_id", c.ID(), "code", code.Code())
	return dto.ToReferralCodeDTO(code, uc.settings.SiteURL), nil
}

type DeactivateReferralCodeCommand struct {
	OwnerUserID uint
	CodeID      uint
}

type DeactivateReferralCodeUseCase struct {
	clinics clinic.ClinicRepository
	codes   clinic.ReferralCodeRepository
	logger  logger.Interface
}

func NewDeactivateReferralCodeUseCase(
	clinics clinic.ClinicRepository,
	codes clinic.ReferralCodeRepository,
	logger logger.Interface,
) *DeactivateReferralCodeUseCase {
	return &DeactivateReferralCodeUseCase{clinics: clinics, codes: codes, logger: logger}
}

func (uc *DeactivateReferralCodeUseCase) Execute(ctx context.Context, cmd DeactivateReferralCodeCommand) error {
	c, err := ownedClinic(ctx, uc.clinics, cmd.OwnerUserID, uc.logger)
	if err != nil {
		return err
	}

	code, err := uc.codes.GetByID(ctx, cmd.CodeID)
	if err != nil {
		uc.logger.Errorw("failed to load referral code", "error", err, "code_id", cmd.CodeID)
		return fmt.Errorf("failed to load referral code: %w", err)
	}
	if code == nil || code.ClinicID() != c.ID() {
		return errors.NewNotFoundError("referral code not found")
	}
	if !code.IsActive() {
		return nil
	}

	code.Deactivate()
	if err := uc.codes.Update(ctx, code); err != nil {
		uc.logger.Errorw("failed to deactivate referral code", "error", err, "code_id", code.ID())
		return fmt.Errorf("failed to deactivate referral code: %w", err)
	}

	uc.logger.Infow("referral code deactivated", "clinic_id", c.ID(), "code", code.Code())
	return nil
}

func ownedClinic(ctx context.Context, clinics clinic.ClinicRepository, ownerUserID uint, log logger.Interface) (*clinic.Clinic, error) {
	c, err := clinics.GetByOwner(ctx, ownerUserID)
	if err != nil {
		log.Errorw("failed to load clinic by owner", "error", err, "user_id", ownerUserID)
		return nil, fmt.Errorf("failed to load clinic: %w", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("no clinic registered for this account")
	}
	return c, nil
}
