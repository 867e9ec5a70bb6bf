package clinic

import (
	"errors"
	"fmt"
)

var (
	ErrClinicNotFound             = errors.New("clinic not found")
	ErrReferralCodeNotFound       = errors.New("referral code not found or inactive")
	ErrReferredUserNotFound       = errors.New("referred user not found")
	ErrInvalidConfirmationToken   = errors.New("invalid confirmation token")
	ErrConfirmationTokenExpired   = errors.New("confirmation token expired")
	ErrInvalidStatusTransition    = errors.New("invalid referral status transition")
	ErrInvalidReferralCode        = errors.New("invalid referral code format")
	ErrReferralCodeExhausted      = errors.New("could not allocate a unique referral code")
	ErrClinicNotAcceptingReferral = errors.New("clinic is not accepting referrals")
)

func ErrInvalidTransition(from, to Status) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
