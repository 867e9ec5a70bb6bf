package usage

import (
	"errors"
	"time"
)

// Record is the per-user ledger row for the current month. One row exists per
// user; when a new month starts the row is rolled forward in place, so the
// ledger only ever describes the current month. Historical usage is derived
// from the recommendation log.
type Record struct {
	id          uint
	userID      uint
	month       time.Time
	mealCount   int
	healthCount int
	updatedAt   time.Time
}

func NewRecord(userID uint, month time.Time) (*Record, error) {
	if userID == 0 {
		return nil, errors.New("user ID cannot be zero")
	}
	if !isMonthBucket(month) {
		return nil, ErrInvalidMonth
	}
	return &Record{
		userID:    userID,
		month:     month,
		updatedAt: time.Now().UTC(),
	}, nil
}

func ReconstructRecord(id, userID uint, month time.Time, mealCount, healthCount int, updatedAt time.Time) *Record {
	return &Record{
		id:          id,
		userID:      userID,
		month:       month,
		mealCount:   mealCount,
		healthCount: healthCount,
		updatedAt:   updatedAt,
	}
}

func (r *Record) ID() uint             { return r.id }
func (r *Record) UserID() uint         { return r.userID }
func (r *Record) Month() time.Time     { return r.month }
func (r *Record) MealCount() int       { return r.mealCount }
func (r *Record) HealthCount() int     { return r.healthCount }
func (r *Record) UpdatedAt() time.Time { return r.updatedAt }

func (r *Record) SetID(id uint) {
	r.id = id
}

func (r *Record) Count(action ActionType) int {
	switch action {
	case ActionMeal:
		return r.mealCount
	case ActionHealth:
		return r.healthCount
	default:
		return 0
	}
}

// IsStale reports whether the row belongs to a month before current.
func (r *Record) IsStale(current time.Time) bool {
	return r.month.Before(current)
}

// RollTo moves a stale row to month and zeroes both counters. It returns
// false and leaves the row untouched when the row is not older than month.
func (r *Record) RollTo(month time.Time) bool {
	if !r.IsStale(month) {
		return false
	}
	r.month = month
	r.mealCount = 0
	r.healthCount = 0
	r.updatedAt = time.Now().UTC()
	return true
}

func (r *Record) Increment(action ActionType) error {
	switch action {
	case ActionMeal:
		r.mealCount++
	case ActionHealth:
		r.healthCount++
	default:
		return ErrInvalidAction
	}
	r.updatedAt = time.Now().UTC()
	return nil
}

func isMonthBucket(t time.Time) bool {
	return !t.IsZero() && t.Day() == 1 && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
