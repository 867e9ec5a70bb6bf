package clinic

import (
	"regexp"
	"strings"
	"time"
)

// MaxReferralCodeLength bounds a code so it stays readable in signup URLs.
const MaxReferralCodeLength = 40

var referralCodePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ReferralCode is a globally unique token bound to a clinic. Codes are never
// deleted, only deactivated.
type ReferralCode struct {
	id        uint
	clinicID  uint
	code      string
	isActive  bool
	createdAt time.Time
}

func NewReferralCode(clinicID uint, code string) (*ReferralCode, error) {
	code = NormalizeCode(code)
	if clinicID == 0 || !ValidCode(code) {
		return nil, ErrInvalidReferralCode
	}
	return &ReferralCode{
		clinicID:  clinicID,
		code:      code,
		isActive:  true,
		createdAt: time.Now().UTC(),
	}, nil
}

func ReconstructReferralCode(id, clinicID uint, code string, isActive bool, createdAt time.Time) *ReferralCode {
	return &ReferralCode{id: id, clinicID: clinicID, code: code, isActive: isActive, createdAt: createdAt}
}

func (r *ReferralCode) ID() uint             { return r.id }
func (r *ReferralCode) ClinicID() uint       { return r.clinicID }
func (r *ReferralCode) Code() string         { return r.code }
func (r *ReferralCode) IsActive() bool       { return r.isActive }
func (r *ReferralCode) CreatedAt() time.Time { return r.createdAt }

func (r *ReferralCode) SetID(id uint) {
	r.id = id
}

func (r *ReferralCode) Deactivate() {
	r.isActive = false
}

// NormalizeCode trims and lowercases user-supplied codes.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ValidCode reports whether code is a slug of acceptable length.
func ValidCode(code string) bool {
	return code != "" && len(code) <= MaxReferralCodeLength && referralCodePattern.MatchString(code)
}
