package cache

import (
	"context"
	"time"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

// NullStore discards writes and misses every read. Live preview renders use it
// so nothing they compute reaches, or is read from, the shared cache.
type NullStore struct{}

func (NullStore) Get(context.Context, string) (*domain.CacheEntry, error) {
	return nil, ErrCacheMiss
}

func (NullStore) Set(context.Context, string, []byte, time.Duration, []string) error {
	return nil
}

func (NullStore) Delete(context.Context, ...string) error {
	return nil
}

func (NullStore) InvalidateTags(context.Context, ...string) error {
	return nil
}

func (NullStore) Close() error {
	return nil
}
