package cache

import (
	"context"
	"errors"
	"time"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// Permanent stores an entry until it is deleted or one of its tags is
// invalidated.
const Permanent time.Duration = 0

// Store is a process-wide keyed cache with tag-based invalidation.
// Writes to the same key are last-writer-wins. Data must be valid JSON.
type Store interface {
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration, tags []string) error
	Delete(ctx context.Context, keys ...string) error
	InvalidateTags(ctx context.Context, tags ...string) error
	Close() error
}
