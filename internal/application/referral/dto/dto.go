package dto

import (
	"net/url"
	"strings"
	"time"

	"github.com/fammo-app/fammo/internal/domain/clinic"
)

type ReferralCodeDTO struct {
	ID        uint      `json:"id"`
	ClinicID  uint      `json:"clinic_id"`
	Code      string    `json:"code"`
	IsActive  bool      `json:"is_active"`
	SignupURL string    `json:"signup_url"`
	CreatedAt time.Time `json:"created_at"`
}

type ReferredUserDTO struct {
	ID             uint      `json:"id"`
	ClinicID       uint      `json:"clinic_id"`
	ReferralCodeID *uint     `json:"referral_code_id"`
	UserID         *uint     `json:"user_id"`
	Email          string    `json:"email"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LandingDTO is what a visitor of a referral link sees.
type LandingDTO struct {
	VisitorToken string `json:"visitor_token"`
	ReferralCode string `json:"referral_code"`
	SignupURL    string `json:"signup_url"`
	ClinicID     uint   `json:"clinic_id"`
	ClinicName   string `json:"clinic_name"`
	ClinicSlug   string `json:"clinic_slug"`
	City         string `json:"city"`
	IsVerified   bool   `json:"is_verified"`
	LogoURL      string `json:"logo,omitempty"`
}

// SignupURL builds <site>/signup/?ref=<code>.
func SignupURL(siteURL, code string) string {
	return strings.TrimRight(siteURL, "/") + "/signup/?ref=" + url.QueryEscape(code)
}

func ToReferralCodeDTO(c *clinic.ReferralCode, siteURL string) *ReferralCodeDTO {
	return &ReferralCodeDTO{
		ID:        c.ID(),
		ClinicID:  c.ClinicID(),
		Code:      c.Code(),
		IsActive:  c.IsActive(),
		SignupURL: SignupURL(siteURL, c.Code()),
		CreatedAt: c.CreatedAt(),
	}
}

func ToReferredUserDTO(r *clinic.ReferredUser) *ReferredUserDTO {
	return &ReferredUserDTO{
		ID:             r.ID(),
		ClinicID:       r.ClinicID(),
		ReferralCodeID: r.ReferralCodeID(),
		UserID:         r.UserID(),
		Email:          r.EmailCapture(),
		Status:         r.Status().String(),
		CreatedAt:      r.CreatedAt(),
		UpdatedAt:      r.UpdatedAt(),
	}
}
