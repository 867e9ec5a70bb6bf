package dto

import (
	"time"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/geo"
)

// ClinicDTO is the public clinic listing shape.
type ClinicDTO struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	City            string   `json:"city"`
	Address         string   `json:"address"`
	Phone           string   `json:"phone"`
	Email           string   `json:"email"`
	Website         string   `json:"website"`
	WorkingHours    string   `json:"working_hours"`
	Specializations string   `json:"specializations"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Distance        *float64 `json:"distance,omitempty"`
	IsVerified      bool     `json:"is_verified"`
	Logo            *string  `json:"logo"`
}

type NearbySearchParams struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
}

type NearbyClinicsDTO struct {
	Count        int                `json:"count"`
	Clinics      []*ClinicDTO       `json:"clinics"`
	SearchParams NearbySearchParams `json:"search_params"`
}

type CitySearchParams struct {
	City     string  `json:"city"`
	RadiusKm float64 `json:"radius_km"`
}

type CityClinicsDTO struct {
	Count        int              `json:"count"`
	Clinics      []*ClinicDTO     `json:"clinics"`
	SearchParams CitySearchParams `json:"search_params"`
}

// VetProfileDTO is omitted from responses when the clinic has no lead vet.
type VetProfileDTO struct {
	Name           string `json:"vet_name"`
	Degrees        string `json:"degrees,omitempty"`
	Certifications string `json:"certifications,omitempty"`
}

// ClinicDetailDTO is the owner/admin view of a clinic including both gates.
type ClinicDetailDTO struct {
	ClinicDTO
	OwnerUserID    *uint          `json:"owner_user_id"`
	Bio            string         `json:"bio"`
	EmailConfirmed bool           `json:"email_confirmed"`
	AdminApproved  bool           `json:"admin_approved"`
	Vet            *VetProfileDTO `json:"vet,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type CodeStatDTO struct {
	ID        uint   `json:"id"`
	Code      string `json:"code"`
	Referrals int64  `json:"referrals"`
	IsActive  bool   `json:"is_active"`
	SignupURL string `json:"signup_url,omitempty"`
}

type RecentReferralDTO struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type ReferralSummaryDTO struct {
	Total          int64   `json:"total_referrals"`
	New            int64   `json:"new"`
	Active         int64   `json:"active"`
	Inactive       int64   `json:"inactive"`
	Last30Days     int64   `json:"referrals_30_days"`
	Last7Days      int64   `json:"referrals_7_days"`
	ConversionRate float64 `json:"conversion_rate"`
}

// DashboardDTO is what a clinic owner sees. Codes are listed only while the
// clinic is publicly active.
type DashboardDTO struct {
	Clinic             *ClinicDetailDTO     `json:"clinic"`
	VerificationStatus string               `json:"verification_status"`
	IsPublic           bool                 `json:"is_public"`
	Stats              ReferralSummaryDTO   `json:"stats"`
	CodeStats          []*CodeStatDTO       `json:"code_stats"`
	RecentReferrals    []*RecentReferralDTO `json:"recent_referrals"`
}

type NearbyUserDTO struct {
	UserID            uint       `json:"user_id"`
	Email             string     `json:"email"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	City              string     `json:"city"`
	DistanceKm        float64    `json:"distance_km"`
	LocationUpdatedAt *time.Time `json:"location_updated_at"`
}

type NearbyUsersReportDTO struct {
	Clinic          *ClinicDTO       `json:"clinic"`
	RadiusKm        float64          `json:"radius_km"`
	ClinicHasCoords bool             `json:"clinic_has_coords"`
	Users           []*NearbyUserDTO `json:"users"`
}

type GeocodeResultDTO struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
	Failed    int `json:"failed"`
}

func ToClinicDTO(c *clinic.Clinic) *ClinicDTO {
	d := &ClinicDTO{
		ID:              c.ID(),
		Name:            c.Name(),
		Slug:            c.Slug(),
		City:            c.City(),
		Address:         c.Address(),
		Phone:           c.Phone(),
		Email:           c.Email(),
		Website:         c.Website(),
		WorkingHours:    c.WorkingHours(),
		Specializations: c.Specializations(),
		Latitude:        c.Latitude(),
		Longitude:       c.Longitude(),
		IsVerified:      c.IsVerified(),
	}
	if logo := c.LogoURL(); logo != "" {
		d.Logo = &logo
	}
	return d
}

func ToRankedClinicDTOs(ranked []geo.Ranked[*clinic.Clinic]) []*ClinicDTO {
	out := make([]*ClinicDTO, len(ranked))
	for i, r := range ranked {
		d := ToClinicDTO(r.Item)
		distance := r.DistanceKm
		d.Distance = &distance
		out[i] = d
	}
	return out
}

func ToClinicDTOs(clinics []*clinic.Clinic) []*ClinicDTO {
	out := make([]*ClinicDTO, len(clinics))
	for i, c := range clinics {
		out[i] = ToClinicDTO(c)
	}
	return out
}

func ToClinicDetailDTO(c *clinic.Clinic) *ClinicDetailDTO {
	d := &ClinicDetailDTO{
		ClinicDTO:      *ToClinicDTO(c),
		OwnerUserID:    c.OwnerUserID(),
		Bio:            c.Bio(),
		EmailConfirmed: c.EmailConfirmed(),
		AdminApproved:  c.AdminApproved(),
		CreatedAt:      c.CreatedAt(),
		UpdatedAt:      c.UpdatedAt(),
	}
	if v := c.Vet(); v.Name != "" {
		d.Vet = &VetProfileDTO{Name: v.Name, Degrees: v.Degrees, Certifications: v.Certifications}
	}
	return d
}

// VerificationStatus summarizes the two gates for display.
func VerificationStatus(c *clinic.Clinic) string {
	switch {
	case c.IsVerified():
		return "verified"
	case c.EmailConfirmed():
		return "pending_approval"
	default:
		return "pending_email_confirmation"
	}
}
