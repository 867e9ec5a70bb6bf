package usecases

import "time"

// Settings are the referral knobs taken from the referral config section.
type Settings struct {
	SiteURL     string
	MaxAttempts int
	PendingTTL  time.Duration
}

func (s Settings) maxAttempts() int {
	if s.MaxAttempts <= 0 {
		return 10
	}
	return s.MaxAttempts
}

func (s Settings) pendingTTL() time.Duration {
	if s.PendingTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.PendingTTL
}

// visitRecord is parked under the visitor token when a referral link is opened.
type visitRecord struct {
	ReferralCode   string `json:"referral_code"`
	ClinicID       uint   `json:"clinic_id"`
	ReferredUserID uint   `json:"referred_user_id"`
}

// pendingReferral is parked under the user id until the account is activated.
type pendingReferral struct {
	ClinicID       uint `json:"clinic_id"`
	ReferredUserID uint `json:"referred_user_id"`
}
