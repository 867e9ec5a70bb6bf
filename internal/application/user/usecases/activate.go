package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/fammo-app/fammo/internal/application/user/dto"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const invalidActivationMessage = "Invalid or expired activation link"

type ActivateAccountCommand struct {
	Token string
}

// ActivateAccountUseCase consumes the emailed activation token and signs the
// user in. The referral and the parked pet draft are completed best-effort.
type ActivateAccountUseCase struct {
	users     user.Repository
	tokens    TokenGenerator
	issuer    AccessTokenIssuer
	referrals ReferralActivator
	petDrafts PetDrafts
	now       func() time.Time
	logger    logger.Interface
}

func NewActivateAccountUseCase(
	users user.Repository,
	tokens TokenGenerator,
	issuer AccessTokenIssuer,
	referrals ReferralActivator,
	petDrafts PetDrafts,
	logger logger.Interface,
) *ActivateAccountUseCase {
	return &ActivateAccountUseCase{
		users:     users,
		tokens:    tokens,
		issuer:    issuer,
		referrals: referrals,
		petDrafts: petDrafts,
		now:       biztime.NowUTC,
		logger:    logger,
	}
}

func (uc *ActivateAccountUseCase) Execute(ctx context.Context, cmd ActivateAccountCommand) (*dto.ActivationDTO, error) {
	plain := strings.TrimSpace(cmd.Token)
	if plain == "" {
		return nil, errors.NewValidationError(invalidActivationMessage)
	}
	hash := uc.tokens.Hash(plain)

	u, err := uc.users.GetByActivationTokenHash(ctx, hash)
	if err != nil {
		uc.logger.Errorw("failed to look up activation token", "error", err)
		return nil, fmt.Errorf("failed to look up activation token: %w", err)
	}
	if u == nil {
		return nil, errors.NewValidationError(invalidActivationMessage)
	}

	if err := u.Activate(hash, uc.now()); err != nil {
		switch {
		case stderrors.Is(err, user.ErrAlreadyActive):
			return nil, errors.NewConflictError("Account is already active")
		case stderrors.Is(err, user.ErrActivationExpired), stderrors.Is(err, user.ErrInvalidActivationToken):
			return nil, errors.NewValidationError(invalidActivationMessage)
		}
		return nil, err
	}
	if err := uc.users.Update(ctx, u); err != nil {
		uc.logger.Errorw("failed to activate user", "error", err, "user_id", u.ID())
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	result := &dto.ActivationDTO{}

	row, err := uc.referrals.Execute(ctx, u.ID())
	if err != nil {
		uc.logger.Warnw("failed to activate referral", "error", err, "user_id", u.ID())
	}
	result.ReferralActivated = err == nil && row != nil

	created, err := uc.petDrafts.CreatePending(ctx, u.ID())
	if err != nil {
		uc.logger.Warnw("failed to create pending pet", "error", err, "user_id", u.ID())
	}
	result.Pet = created

	access, err := uc.issuer.Generate(u.ID(), u.Role())
	if err != nil {
		uc.logger.Errorw("failed to issue access token", "error", err, "user_id", u.ID())
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	result.AuthTokenDTO = toAuthToken(u, access.Token, access.ExpiresIn)

	uc.logger.Infow("account activated", "user_id", u.ID(), "referral_activated", result.ReferralActivated)
	return result, nil
}

func toAuthToken(u *user.User, accessToken string, expiresIn int64) dto.AuthTokenDTO {
	return dto.AuthTokenDTO{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		UserID:      u.ID(),
		Role:        u.Role().String(),
	}
}
