package clinic

import (
	"crypto/subtle"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/fammo-app/fammo/internal/domain/geo"
)

// VetProfile is the lead veterinarian shown on the clinic page.
type VetProfile struct {
	Name           string
	Degrees        string
	Certifications string
}

// Clinic is a partner veterinary clinic. isVerified is derived: it always
// equals emailConfirmed && adminApproved and is recomputed by the only two
// methods that change those flags.
type Clinic struct {
	id                    uint
	ownerUserID           *uint
	name                  string
	slug                  string
	email                 string
	phone                 string
	website               string
	address               string
	city                  string
	workingHours          string
	specializations       string
	bio                   string
	logoURL               string
	latitude              *float64
	longitude             *float64
	emailConfirmed        bool
	adminApproved         bool
	isVerified            bool
	confirmationTokenHash string
	confirmationSentAt    *time.Time
	vet                   VetProfile
	createdAt             time.Time
	updatedAt             time.Time
}

// Details are the editable identity and contact fields.
type Details struct {
	Name            string
	Email           string
	Phone           string
	Website         string
	Address         string
	City            string
	WorkingHours    string
	Specializations string
	Bio             string
	LogoURL         string
	Vet             VetProfile
}

func NewClinic(ownerUserID *uint, d Details) (*Clinic, error) {
	c := &Clinic{ownerUserID: ownerUserID}
	if err := c.UpdateDetails(d); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c.createdAt = now
	c.updatedAt = now
	return c, nil
}

// State carries persisted values for ReconstructClinic.
type State struct {
	ID                    uint
	OwnerUserID           *uint
	Slug                  string
	Details               Details
	Latitude              *float64
	Longitude             *float64
	EmailConfirmed        bool
	AdminApproved         bool
	ConfirmationTokenHash string
	ConfirmationSentAt    *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func ReconstructClinic(s State) *Clinic {
	c := &Clinic{
		id:                    s.ID,
		ownerUserID:           s.OwnerUserID,
		slug:                  s.Slug,
		latitude:              s.Latitude,
		longitude:             s.Longitude,
		emailConfirmed:        s.EmailConfirmed,
		adminApproved:         s.AdminApproved,
		confirmationTokenHash: s.ConfirmationTokenHash,
		confirmationSentAt:    s.ConfirmationSentAt,
		createdAt:             s.CreatedAt,
		updatedAt:             s.UpdatedAt,
	}
	c.applyDetails(s.Details)
	c.deriveVerification()
	return c
}

func (c *Clinic) ID() uint                      { return c.id }
func (c *Clinic) OwnerUserID() *uint            { return c.ownerUserID }
func (c *Clinic) Name() string                  { return c.name }
func (c *Clinic) Slug() string                  { return c.slug }
func (c *Clinic) Email() string                 { return c.email }
func (c *Clinic) Phone() string                 { return c.phone }
func (c *Clinic) Website() string               { return c.website }
func (c *Clinic) Address() string               { return c.address }
func (c *Clinic) City() string                  { return c.city }
func (c *Clinic) WorkingHours() string          { return c.workingHours }
func (c *Clinic) Specializations() string       { return c.specializations }
func (c *Clinic) Bio() string                   { return c.bio }
func (c *Clinic) LogoURL() string               { return c.logoURL }
func (c *Clinic) Latitude() *float64            { return c.latitude }
func (c *Clinic) Longitude() *float64           { return c.longitude }
func (c *Clinic) EmailConfirmed() bool          { return c.emailConfirmed }
func (c *Clinic) AdminApproved() bool           { return c.adminApproved }
func (c *Clinic) IsVerified() bool              { return c.isVerified }
func (c *Clinic) ConfirmationTokenHash() string { return c.confirmationTokenHash }
func (c *Clinic) ConfirmationSentAt() *time.Time { return c.confirmationSentAt }
func (c *Clinic) Vet() VetProfile                { return c.vet }
func (c *Clinic) CreatedAt() time.Time           { return c.createdAt }
func (c *Clinic) UpdatedAt() time.Time           { return c.updatedAt }

func (c *Clinic) SetID(id uint) {
	c.id = id
}

// AssignOwner links the clinic to the account that manages it.
func (c *Clinic) AssignOwner(userID uint) {
	c.ownerUserID = &userID
	c.updatedAt = time.Now().UTC()
}

func (c *Clinic) SetSlug(slug string) {
	c.slug = slug
}

// Details returns a copy of the editable fields.
func (c *Clinic) Details() Details {
	return Details{
		Name:            c.name,
		Email:           c.email,
		Phone:           c.phone,
		Website:         c.website,
		Address:         c.address,
		City:            c.city,
		WorkingHours:    c.workingHours,
		Specializations: c.specializations,
		Bio:             c.bio,
		LogoURL:         c.logoURL,
		Vet:             c.vet,
	}
}

func (c *Clinic) UpdateDetails(d Details) error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("clinic name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(d.Email)); err != nil {
		return errors.New("clinic email is invalid")
	}
	c.applyDetails(d)
	c.updatedAt = time.Now().UTC()
	return nil
}

func (c *Clinic) applyDetails(d Details) {
	c.name = strings.TrimSpace(d.Name)
	c.email = strings.ToLower(strings.TrimSpace(d.Email))
	c.phone = strings.TrimSpace(d.Phone)
	c.website = strings.TrimSpace(d.Website)
	c.address = strings.TrimSpace(d.Address)
	c.city = strings.TrimSpace(d.City)
	c.workingHours = d.WorkingHours
	c.specializations = d.Specializations
	c.bio = d.Bio
	c.logoURL = d.LogoURL
	c.vet = d.Vet
}

// SetEmailConfirmed changes the email gate and recomputes verification.
// It reports whether the flag actually changed.
func (c *Clinic) SetEmailConfirmed(v bool) bool {
	if c.emailConfirmed == v {
		return false
	}
	c.emailConfirmed = v
	c.deriveVerification()
	c.updatedAt = time.Now().UTC()
	return true
}

// SetAdminApproved changes the admin gate and recomputes verification.
func (c *Clinic) SetAdminApproved(v bool) bool {
	if c.adminApproved == v {
		return false
	}
	c.adminApproved = v
	c.deriveVerification()
	c.updatedAt = time.Now().UTC()
	return true
}

func (c *Clinic) deriveVerification() {
	c.isVerified = c.emailConfirmed && c.adminApproved
}

// IsPubliclyListed reports whether the clinic may appear in listings and
// accept referral visits.
func (c *Clinic) IsPubliclyListed() bool {
	return c.emailConfirmed
}

// IssueConfirmationToken stores the hash of a freshly generated token.
func (c *Clinic) IssueConfirmationToken(hash string, now time.Time) {
	c.confirmationTokenHash = hash
	sent := now.UTC()
	c.confirmationSentAt = &sent
	c.updatedAt = sent
}

// ConfirmEmail validates the token hash and its age, then flips the email
// gate and clears the token. changed is false when the clinic was already
// confirmed, in which case the token is not checked.
func (c *Clinic) ConfirmEmail(tokenHash string, now time.Time, ttl time.Duration) (changed bool, err error) {
	if c.emailConfirmed {
		return false, nil
	}
	if c.confirmationTokenHash == "" || subtle.ConstantTimeCompare([]byte(tokenHash), []byte(c.confirmationTokenHash)) != 1 {
		return false, ErrInvalidConfirmationToken
	}
	if c.confirmationSentAt == nil || now.Sub(*c.confirmationSentAt) > ttl {
		return false, ErrConfirmationTokenExpired
	}
	c.confirmationTokenHash = ""
	c.confirmationSentAt = nil
	return c.SetEmailConfirmed(true), nil
}

// Location returns the clinic's coordinates when both are set.
func (c *Clinic) Location() (geo.Point, bool) {
	if c.latitude == nil || c.longitude == nil {
		return geo.Point{}, false
	}
	return geo.Point{Lat: *c.latitude, Lng: *c.longitude}, true
}

func (c *Clinic) HasCoordinates() bool {
	_, ok := c.Location()
	return ok
}

func (c *Clinic) SetCoordinates(p geo.Point) error {
	if err := p.Validate(); err != nil {
		return err
	}
	lat, lng := p.Lat, p.Lng
	c.latitude = &lat
	c.longitude = &lng
	c.updatedAt = time.Now().UTC()
	return nil
}

// CanGeocode reports whether there is enough address data to look up coordinates.
func (c *Clinic) CanGeocode() bool {
	return c.address != "" || c.city != ""
}
