package usage

import (
	"context"
	"time"
)

// LedgerRepository persists Records. month arguments are month buckets.
type LedgerRepository interface {
	// GetOrCreateCurrent returns the user's row, creating a zeroed one when
	// absent and rolling a stale one forward to month.
	GetOrCreateCurrent(ctx context.Context, userID uint, month time.Time) (*Record, error)
	// LockCurrent is GetOrCreateCurrent that also holds a row lock until the
	// surrounding transaction ends.
	LockCurrent(ctx context.Context, userID uint, month time.Time) (*Record, error)
	// Increment atomically adds one to the action's counter.
	Increment(ctx context.Context, recordID uint, action ActionType) error
	// ResetStale rolls every row older than month to month with zero counters.
	ResetStale(ctx context.Context, month time.Time) (int64, error)
}

type PlanRepository interface {
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByTier(ctx context.Context, tier Tier) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
	Upsert(ctx context.Context, plan *Plan) error
}
