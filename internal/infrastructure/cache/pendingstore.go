package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fammo-app/fammo/internal/domain/shared"
)

const PendingKeyPrefix = "fammo:pending:"

var ErrPendingNotFound = shared.ErrPendingNotFound

var _ shared.PendingStore = (*PendingStore)(nil)

// PendingStore is the Redis implementation of shared.PendingStore. Values
// are stored as JSON.
type PendingStore struct {
	client redis.Cmdable
	prefix string
}

func NewPendingStore(client redis.Cmdable) *PendingStore {
	return &PendingStore{client: client, prefix: PendingKeyPrefix}
}

// Put stores value under kind/key, replacing any previous record.
func (s *PendingStore) Put(ctx context.Context, kind, key string, value any, ttl time.Duration) error {
	if kind == "" || key == "" {
		return errors.New("pending kind and key cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("pending ttl must be positive")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal pending %s: %w", kind, err)
	}
	if err := s.client.Set(ctx, s.buildKey(kind, key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending %s: %w", kind, err)
	}
	return nil
}

// Take reads and deletes the record atomically, so it can be consumed once.
func (s *PendingStore) Take(ctx context.Context, kind, key string, dest any) error {
	data, err := s.client.GetDel(ctx, s.buildKey(kind, key)).Result()
	return s.decode(kind, data, err, dest)
}

// Peek reads the record without consuming it.
func (s *PendingStore) Peek(ctx context.Context, kind, key string, dest any) error {
	data, err := s.client.Get(ctx, s.buildKey(kind, key)).Result()
	return s.decode(kind, data, err, dest)
}

func (s *PendingStore) Delete(ctx context.Context, kind, key string) error {
	if err := s.client.Del(ctx, s.buildKey(kind, key)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending %s: %w", kind, err)
	}
	return nil
}

func (s *PendingStore) decode(kind, data string, err error, dest any) error {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrPendingNotFound
		}
		return fmt.Errorf("failed to read pending %s: %w", kind, err)
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal pending %s: %w", kind, err)
	}
	return nil
}

func (s *PendingStore) buildKey(kind, key string) string {
	return s.prefix + kind + ":" + key
}

// IsPendingNotFound reports whether err means the record is gone.
func IsPendingNotFound(err error) bool {
	return errors.Is(err, ErrPendingNotFound)
}
