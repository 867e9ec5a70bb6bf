package clinic

import (
	"errors"
	"strings"
	"time"
)

// Status is the conversion state of a referred user.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) IsValid() bool {
	return s == StatusNew || s == StatusActive || s == StatusInactive
}

func (s Status) String() string {
	return string(s)
}

// ReferredUser links a prospective or registered user to the clinic that
// referred them. Exactly one of the natural keys identifies a row:
// (clinic, user) once a user is known, otherwise (clinic, email capture)
// or (clinic, visitor key) for anonymous visits.
type ReferredUser struct {
	id             uint
	clinicID       uint
	referralCodeID *uint
	userID         *uint
	emailCapture   string
	visitorKey     string
	status         Status
	createdAt      time.Time
	updatedAt      time.Time
}

func newReferredUser(clinicID uint, codeID *uint) (*ReferredUser, error) {
	if clinicID == 0 {
		return nil, errors.New("clinic ID cannot be zero")
	}
	now := time.Now().UTC()
	return &ReferredUser{
		clinicID:       clinicID,
		referralCodeID: codeID,
		status:         StatusNew,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// NewVisit records an anonymous referral link visit.
func NewVisit(clinicID uint, codeID *uint, visitorKey string) (*ReferredUser, error) {
	if visitorKey == "" {
		return nil, errors.New("visitor key is required")
	}
	r, err := newReferredUser(clinicID, codeID)
	if err != nil {
		return nil, err
	}
	r.visitorKey = visitorKey
	return r, nil
}

// NewForUser creates a row for a known user in the given status.
func NewForUser(clinicID uint, codeID *uint, userID uint, email string, status Status) (*ReferredUser, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, ErrInvalidTransition("", status)
	}
	r, err := newReferredUser(clinicID, codeID)
	if err != nil {
		return nil, err
	}
	r.userID = &userID
	r.emailCapture = normalizeEmail(email)
	r.status = status
	return r, nil
}

// NewForEmail creates a pre-signup row keyed by the captured email.
func NewForEmail(clinicID uint, codeID *uint, email string) (*ReferredUser, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	r, err := newReferredUser(clinicID, codeID)
	if err != nil {
		return nil, err
	}
	r.emailCapture = email
	return r, nil
}

type ReferredUserState struct {
	ID             uint
	ClinicID       uint
	ReferralCodeID *uint
	UserID         *uint
	EmailCapture   string
	VisitorKey     string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func ReconstructReferredUser(s ReferredUserState) *ReferredUser {
	return &ReferredUser{
		id:             s.ID,
		clinicID:       s.ClinicID,
		referralCodeID: s.ReferralCodeID,
		userID:         s.UserID,
		emailCapture:   s.EmailCapture,
		visitorKey:     s.VisitorKey,
		status:         s.Status,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
	}
}

func (r *ReferredUser) ID() uint              { return r.id }
func (r *ReferredUser) ClinicID() uint        { return r.clinicID }
func (r *ReferredUser) ReferralCodeID() *uint { return r.referralCodeID }
func (r *ReferredUser) UserID() *uint         { return r.userID }
func (r *ReferredUser) EmailCapture() string  { return r.emailCapture }
func (r *ReferredUser) VisitorKey() string    { return r.visitorKey }
func (r *ReferredUser) Status() Status        { return r.status }
func (r *ReferredUser) CreatedAt() time.Time  { return r.createdAt }
func (r *ReferredUser) UpdatedAt() time.Time  { return r.updatedAt }

func (r *ReferredUser) SetID(id uint) {
	r.id = id
}

func (r *ReferredUser) HasUser() bool {
	return r.userID != nil
}

// MarkRegistered attaches the registering user. A NEW row stays NEW; rows an
// operator or the tracking API already moved on keep their status.
func (r *ReferredUser) MarkRegistered(userID uint, email string, codeID *uint) error {
	if userID == 0 {
		return errors.New("user ID cannot be zero")
	}
	if r.userID != nil && *r.userID != userID {
		return errors.New("referral already belongs to another user")
	}
	r.userID = &userID
	r.emailCapture = normalizeEmail(email)
	if codeID != nil {
		r.referralCodeID = codeID
	}
	r.touch()
	return nil
}

// Activate moves NEW to ACTIVE. It is idempotent for ACTIVE rows and refuses
// to revive an administratively deactivated row.
func (r *ReferredUser) Activate() error {
	switch r.status {
	case StatusActive:
		return nil
	case StatusNew:
		r.status = StatusActive
		r.touch()
		return nil
	default:
		return ErrInvalidTransition(r.status, StatusActive)
	}
}

// ForceStatus is the administrative override; any valid status is accepted.
func (r *ReferredUser) ForceStatus(s Status) error {
	if !s.IsValid() {
		return ErrInvalidTransition(r.status, s)
	}
	if r.status != s {
		r.status = s
		r.touch()
	}
	return nil
}

func (r *ReferredUser) touch() {
	r.updatedAt = time.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
