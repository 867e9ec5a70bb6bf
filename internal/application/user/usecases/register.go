package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/fammo-app/fammo/internal/application/user/dto"
	refusecases "github.com/fammo-app/fammo/internal/application/referral/usecases"
	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/infrastructure/token"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const (
	defaultActivationTTL  = 24 * time.Hour
	activationSentMessage = "Registration successful. Check your email to activate your account."
)

var errActivationEmailFailed = stderrors.New("activation email failed")

type RegisterCommand struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	ReferralCode string
	VisitorToken string
	WizardToken  string
}

type RegisterUseCase struct {
	tx            db.Transactor
	users         user.Repository
	profiles      profile.Repository
	hasher        user.PasswordHasher
	tokens        TokenGenerator
	email         EmailService
	referrals     ReferralAttacher
	petDrafts     PetDrafts
	activationTTL time.Duration
	now           func() time.Time
	logger        logger.Interface
}

func NewRegisterUseCase(
	tx db.Transactor,
	users user.Repository,
	profiles profile.Repository,
	hasher user.PasswordHasher,
	tokens TokenGenerator,
	email EmailService,
	referrals ReferralAttacher,
	petDrafts PetDrafts,
	activationTTL time.Duration,
	logger logger.Interface,
) *RegisterUseCase {
	if activationTTL <= 0 {
		activationTTL = defaultActivationTTL
	}
	return &RegisterUseCase{
		tx:            tx,
		users:         users,
		profiles:      profiles,
		hasher:        hasher,
		tokens:        tokens,
		email:         email,
		referrals:     referrals,
		petDrafts:     petDrafts,
		activationTTL: activationTTL,
		now:           biztime.NowUTC,
		logger:        logger,
	}
}

// Execute creates an inactive account and its profile and mails the
// activation link. A failed send rolls the registration back. Referral and
// wizard hand-offs happen after commit and never fail the registration.
func (uc *RegisterUseCase) Execute(ctx context.Context, cmd RegisterCommand) (*dto.RegisteredUserDTO, error) {
	if err := user.ValidatePassword(cmd.Password); err != nil {
		return nil, errors.NewValidationError(user.PasswordMessage(err))
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := user.NewUser(cmd.Email, hash)
	if err != nil {
		return nil, errors.NewValidationError("Invalid email address")
	}

	plainToken, tokenHash, err := uc.tokens.Generate(token.PrefixActivation)
	if err != nil {
		uc.logger.Errorw("failed to generate activation token", "error", err)
		return nil, fmt.Errorf("failed to generate activation token: %w", err)
	}
	u.IssueActivationToken(tokenHash, uc.now().Add(uc.activationTTL))

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		existing, err := uc.users.GetByEmail(txCtx, u.Email())
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.NewConflictError("An account with this email already exists")
		}

		if err := uc.users.Create(txCtx, u); err != nil {
			if errors.IsDuplicateError(err) {
				return errors.NewConflictError("An account with this email already exists")
			}
			return err
		}

		p, err := profile.NewProfile(u.ID(), cmd.FirstName, cmd.LastName)
		if err != nil {
			return err
		}
		if err := uc.profiles.Create(txCtx, p); err != nil {
			return err
		}

		if err := uc.email.SendActivationEmail(u.Email(), plainToken); err != nil {
			return fmt.Errorf("%w: %v", errActivationEmailFailed, err)
		}
		return nil
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		if stderrors.Is(err, errActivationEmailFailed) {
			uc.logger.Errorw("activation email failed, registration rolled back", "error", err, "email", u.Email())
			return nil, errors.NewInternalError("Could not send the activation email, please try again later")
		}
		uc.logger.Errorw("failed to register user", "error", err, "email", u.Email())
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	uc.afterCommit(ctx, u, cmd)

	uc.logger.Infow("user registered", "user_id", u.ID())
	return &dto.RegisteredUserDTO{UserID: u.ID(), Email: u.Email(), Message: activationSentMessage}, nil
}

func (uc *RegisterUseCase) afterCommit(ctx context.Context, u *user.User, cmd RegisterCommand) {
	if cmd.ReferralCode != "" || cmd.VisitorToken != "" {
		_, err := uc.referrals.Execute(ctx, refusecases.AttachReferralCommand{
			UserID:       u.ID(),
			Email:        u.Email(),
			ReferralCode: cmd.ReferralCode,
			VisitorToken: cmd.VisitorToken,
		})
		if err != nil {
			uc.logger.Warnw("failed to attach referral", "error", err, "user_id", u.ID())
		}
	}

	if cmd.WizardToken != "" {
		if err := uc.petDrafts.ParkForUser(ctx, cmd.WizardToken, u.ID()); err != nil {
			uc.logger.Warnw("failed to park pet draft", "error", err, "user_id", u.ID())
		}
	}
}
