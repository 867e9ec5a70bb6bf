package usecases

import (
	"context"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/geo"
)

// Geocoder resolves an address to coordinates. ok is false when nothing
// matched or the service was unavailable.
type Geocoder interface {
	Geocode(ctx context.Context, address, city string) (p geo.Point, ok bool)
}

type TokenGenerator interface {
	Generate(prefix string) (plainToken string, hash string, err error)
	Hash(plainToken string) string
}

type EmailService interface {
	SendClinicConfirmationEmail(to, clinicName string, clinicID uint, token string) error
	NotifyAdminsClinicConfirmed(clinicName, clinicEmail, city string) error
}

// ReferralCodeEnsurer guarantees that an email-confirmed clinic has an
// active referral code.
type ReferralCodeEnsurer interface {
	Execute(ctx context.Context, c *clinic.Clinic) (*clinic.ReferralCode, error)
}
