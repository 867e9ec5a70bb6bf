// Package biztime resolves calendar boundaries in the server's configured
// timezone. Instants are stored in UTC; only period boundaries (day, month)
// are computed in the business timezone.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is used when server.timezone is empty.
const DefaultTimezone = "Europe/Amsterdam"

var (
	mu          sync.RWMutex
	bizLocation *time.Location
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tz, err)
	}
	SetLocation(loc)
	return nil
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(err)
	}
}

// SetLocation overrides the business timezone.
func SetLocation(loc *time.Location) {
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
}

// Location returns the business timezone, initializing the default on first use.
func Location() *time.Location {
	mu.RLock()
	loc := bizLocation
	mu.RUnlock()
	if loc != nil {
		return loc
	}
	MustInit("")
	return Location()
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns 00:00 of t's business day, as UTC.
func StartOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location()).UTC()
}

// StartOfMonthUTC returns 00:00 on the first day of the month in the business
// timezone, as UTC.
func StartOfMonthUTC(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, Location()).UTC()
}

// MonthStartUTC returns the start of t's business month as UTC. It is the
// lower bound used when counting actions "this month".
func MonthStartUTC(t time.Time) time.Time {
	b := t.In(Location())
	return StartOfMonthUTC(b.Year(), b.Month())
}

// MonthBucket returns the first calendar day of t's business month as a
// date value (midnight UTC, suitable for a DATE column).
func MonthBucket(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ToBizTimezone converts t to the business timezone.
func ToBizTimezone(t time.Time) time.Time {
	return t.In(Location())
}

// FormatInBizTimezone formats t in the business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
