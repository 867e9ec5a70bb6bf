// Package shared holds contracts used by more than one bounded context.
package shared

import (
	"context"
	"errors"
	"time"
)

// ErrPendingNotFound is returned when a pending record expired, was already
// taken, or never existed.
var ErrPendingNotFound = errors.New("pending state not found or expired")

// PendingStore keeps short-lived records that bridge multi-request flows:
// referral visit to signup, signup to activation, and wizard steps.
type PendingStore interface {
	Put(ctx context.Context, kind, key string, value any, ttl time.Duration) error
	// Take reads and removes the record; a record can be taken once.
	Take(ctx context.Context, kind, key string, dest any) error
	Peek(ctx context.Context, kind, key string, dest any) error
	Delete(ctx context.Context, kind, key string) error
}
