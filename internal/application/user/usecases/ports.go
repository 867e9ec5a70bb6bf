package usecases

import (
	"context"

	petdto "github.com/fammo-app/fammo/internal/application/pet/dto"
	refusecases "github.com/fammo-app/fammo/internal/application/referral/usecases"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/auth"
	"github.com/fammo-app/fammo/internal/shared/authorization"
)

type EmailService interface {
	SendActivationEmail(to, token string) error
}

type TokenGenerator interface {
	Generate(prefix string) (plainToken string, hash string, err error)
	Hash(plainToken string) string
}

type AccessTokenIssuer interface {
	Generate(userID uint, role authorization.UserRole) (*auth.AccessToken, error)
}

type ReferralAttacher interface {
	Execute(ctx context.Context, cmd refusecases.AttachReferralCommand) (*clinic.ReferredUser, error)
}

type ReferralActivator interface {
	Execute(ctx context.Context, userID uint) (*clinic.ReferredUser, error)
}

// PetDrafts parks a finished wizard draft at signup and turns it into a pet
// on activation.
type PetDrafts interface {
	ParkForUser(ctx context.Context, wizardToken string, userID uint) error
	CreatePending(ctx context.Context, userID uint) (*petdto.PetDTO, error)
}
