package clinic

import (
	"context"
	"time"
)

type ClinicRepository interface {
	Create(ctx context.Context, c *Clinic) error
	// Update persists every field, including both gates and the derived
	// verification flag, in a single write.
	Update(ctx context.Context, c *Clinic) error
	GetByID(ctx context.Context, id uint) (*Clinic, error)
	GetBySlug(ctx context.Context, slug string) (*Clinic, error)
	GetByOwner(ctx context.Context, userID uint) (*Clinic, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// ListSearchable returns clinics with coordinates that passed both gates.
	ListSearchable(ctx context.Context) ([]*Clinic, error)
	// ListByCity matches city case-insensitively as a substring, both gates
	// required, ordered by name.
	ListByCity(ctx context.Context, city string) ([]*Clinic, error)
	// ListForGeocoding returns clinics with address data; unless force is set
	// only those missing a coordinate. limit <= 0 means no limit.
	ListForGeocoding(ctx context.Context, force bool, limit int) ([]*Clinic, error)
	ListConfirmedWithoutActiveCode(ctx context.Context) ([]*Clinic, error)
}

type ReferralCodeRepository interface {
	// Create inserts code; a collision surfaces as a duplicate-key error.
	Create(ctx context.Context, code *ReferralCode) error
	Update(ctx context.Context, code *ReferralCode) error
	GetByID(ctx context.Context, id uint) (*ReferralCode, error)
	// GetActiveByCode never returns a deactivated code.
	GetActiveByCode(ctx context.Context, code string) (*ReferralCode, error)
	HasActiveCode(ctx context.Context, clinicID uint) (bool, error)
	// ListByClinic returns codes oldest first.
	ListByClinic(ctx context.Context, clinicID uint) ([]*ReferralCode, error)
}

// ReferralStats is the per-clinic conversion summary.
type ReferralStats struct {
	Total        int64
	New          int64
	Active       int64
	Inactive     int64
	Last30Days   int64
	Last7Days    int64
	CountsByCode map[uint]int64
}

type ReferredUserRepository interface {
	// Create inserts a row; a natural-key collision surfaces as a duplicate-key error.
	Create(ctx context.Context, r *ReferredUser) error
	Update(ctx context.Context, r *ReferredUser) error
	GetByID(ctx context.Context, id uint) (*ReferredUser, error)
	ListByIDs(ctx context.Context, ids []uint) ([]*ReferredUser, error)
	FindByClinicAndUser(ctx context.Context, clinicID, userID uint) (*ReferredUser, error)
	// FindByClinicAndEmail only matches rows without a user.
	FindByClinicAndEmail(ctx context.Context, clinicID uint, email string) (*ReferredUser, error)
	FindByClinicAndVisitor(ctx context.Context, clinicID uint, visitorKey string) (*ReferredUser, error)
	ListByClinic(ctx context.Context, clinicID uint, limit int) ([]*ReferredUser, error)
	Stats(ctx context.Context, clinicID uint, now time.Time) (*ReferralStats, error)
}
