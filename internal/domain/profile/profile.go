package profile

import (
	"errors"
	"strings"
	"time"

	"github.com/fammo-app/fammo/internal/domain/geo"
)

var (
	ErrProfileNotFound            = errors.New("profile not found")
	ErrConsentRequiresCoordinates = errors.New("latitude and longitude are required when consent is true")
)

// Profile holds a user's personal details, subscription plan and the
// optional shared location. Coordinates are present only while
// locationConsent is true.
type Profile struct {
	id                uint
	userID            uint
	firstName         string
	lastName          string
	city              string
	planID            *uint
	latitude          *float64
	longitude         *float64
	locationConsent   bool
	locationUpdatedAt *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

func NewProfile(userID uint, firstName, lastName string) (*Profile, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	now := time.Now().UTC()
	return &Profile{
		userID:    userID,
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
		createdAt: now,
		updatedAt: now,
	}, nil
}

type State struct {
	ID                uint
	UserID            uint
	FirstName         string
	LastName          string
	City              string
	PlanID            *uint
	Latitude          *float64
	Longitude         *float64
	LocationConsent   bool
	LocationUpdatedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func ReconstructProfile(s State) *Profile {
	return &Profile{
		id:                s.ID,
		userID:            s.UserID,
		firstName:         s.FirstName,
		lastName:          s.LastName,
		city:              s.City,
		planID:            s.PlanID,
		latitude:          s.Latitude,
		longitude:         s.Longitude,
		locationConsent:   s.LocationConsent,
		locationUpdatedAt: s.LocationUpdatedAt,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}

func (p *Profile) ID() uint                      { return p.id }
func (p *Profile) UserID() uint                  { return p.userID }
func (p *Profile) FirstName() string             { return p.firstName }
func (p *Profile) LastName() string              { return p.lastName }
func (p *Profile) City() string                  { return p.city }
func (p *Profile) PlanID() *uint                 { return p.planID }
func (p *Profile) Latitude() *float64            { return p.latitude }
func (p *Profile) Longitude() *float64           { return p.longitude }
func (p *Profile) LocationConsent() bool         { return p.locationConsent }
func (p *Profile) LocationUpdatedAt() *time.Time { return p.locationUpdatedAt }
func (p *Profile) CreatedAt() time.Time          { return p.createdAt }
func (p *Profile) UpdatedAt() time.Time          { return p.updatedAt }

func (p *Profile) SetID(id uint) {
	p.id = id
}

func (p *Profile) SetPlan(planID *uint) {
	p.planID = planID
	p.updatedAt = time.Now().UTC()
}

func (p *Profile) SetCity(city string) {
	p.city = strings.TrimSpace(city)
	p.updatedAt = time.Now().UTC()
}

// SaveLocation applies a consent decision. Withdrawing consent clears the
// coordinates whatever was supplied; granting it requires a valid point.
// The timestamp is refreshed in both cases. On error the profile is unchanged.
func (p *Profile) SaveLocation(consent bool, lat, lng *float64, now time.Time) error {
	if !consent {
		p.locationConsent = false
		p.latitude = nil
		p.longitude = nil
		p.stampLocation(now)
		return nil
	}
	if lat == nil || lng == nil {
		return ErrConsentRequiresCoordinates
	}
	pt := geo.Point{Lat: *lat, Lng: *lng}
	if err := pt.Validate(); err != nil {
		return err
	}
	la, ln := pt.Lat, pt.Lng
	p.locationConsent = true
	p.latitude = &la
	p.longitude = &ln
	p.stampLocation(now)
	return nil
}

func (p *Profile) stampLocation(now time.Time) {
	ts := now.UTC()
	p.locationUpdatedAt = &ts
	p.updatedAt = ts
}

// Location returns the shared position, only when consent is given.
func (p *Profile) Location() (geo.Point, bool) {
	if !p.locationConsent || p.latitude == nil || p.longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *p.latitude, Lng: *p.longitude}, true
}
