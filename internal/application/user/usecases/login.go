package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/application/user/dto"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const invalidCredentialsMessage = "Invalid email or password"

type LoginCommand struct {
	Email    string
	Password string
}

type LoginUseCase struct {
	users  user.Repository
	hasher user.PasswordHasher
	issuer AccessTokenIssuer
	logger logger.Interface
}

func NewLoginUseCase(
	users user.Repository,
	hasher user.PasswordHasher,
	issuer AccessTokenIssuer,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		logger: logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.AuthTokenDTO, error) {
	email := user.NormalizeEmail(cmd.Email)
	if email == "" || cmd.Password == "" {
		return nil, errors.NewValidationError("Email and password are required")
	}

	u, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to load user", "error", err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	if err := uc.hasher.Verify(cmd.Password, u.PasswordHash()); err != nil {
		uc.logger.Debugw("password mismatch", "user_id", u.ID())
		return nil, errors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	if !u.IsActive() {
		return nil, errors.NewForbiddenError("Account is not activated yet, check your email")
	}

	access, err := uc.issuer.Generate(u.ID(), u.Role())
	if err != nil {
		uc.logger.Errorw("failed to issue access token", "error", err, "user_id", u.ID())
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	uc.logger.Infow("user logged in", "user_id", u.ID())
	out := toAuthToken(u, access.Token, access.ExpiresIn)
	return &out, nil
}
