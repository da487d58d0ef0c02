package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/config"
	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

// RedisStore keeps entries as JSON under <prefix>:<key> and indexes them per
// tag in Redis sets under <prefix>:tag:<tag>.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a new Redis-based cache store.
func NewRedisStore(cfg config.RedisConfig, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStoreFromClient(client, prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. The store owns the client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

func (c *RedisStore) entryKey(key string) string {
	return fmt.Sprintf("%s:%s", c.prefix, key)
}

func (c *RedisStore) tagKey(tag string) string {
	return fmt.Sprintf("%s:tag:%s", c.prefix, tag)
}

func (c *RedisStore) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	data, err := c.client.Get(ctx, c.entryKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &entry, nil
}

func (c *RedisStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration, tags []string) error {
	entry := newEntry(key, data, ttl, tags, c.now())

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	ek := c.entryKey(key)
	stale, err := c.staleTags(ctx, key, entry.Tags)
	if err != nil {
		return err
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, tag := range stale {
			pipe.SRem(ctx, c.tagKey(tag), ek)
		}
		pipe.Set(ctx, ek, payload, ttl)
		for _, tag := range entry.Tags {
			pipe.SAdd(ctx, c.tagKey(tag), ek)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

// staleTags returns the tags of the stored entry for key that tags no longer
// lists.
func (c *RedisStore) staleTags(ctx context.Context, key string, tags []string) ([]string, error) {
	data, err := c.client.Get(ctx, c.entryKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var prev domain.CacheEntry
	if err := json.Unmarshal(data, &prev); err != nil {
		// An unreadable entry is overwritten as is.
		return nil, nil
	}

	keep := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		keep[t] = struct{}{}
	}
	var stale []string
	for _, t := range prev.Tags {
		if _, ok := keep[t]; !ok {
			stale = append(stale, t)
		}
	}
	return stale, nil
}

func (c *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	eks := make([]string, len(keys))
	for i, k := range keys {
		eks[i] = c.entryKey(k)
	}

	if err := c.client.Del(ctx, eks...).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}

	return nil
}

func (c *RedisStore) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tk := c.tagKey(tag)

		members, err := c.client.SMembers(ctx, tk).Result()
		if err != nil {
			return fmt.Errorf("failed to read tag %s: %w", tag, err)
		}

		_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(members) > 0 {
				pipe.Del(ctx, members...)
			}
			pipe.Del(ctx, tk)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to invalidate tag %s: %w", tag, err)
		}
	}

	return nil
}

func (c *RedisStore) Close() error {
	return c.client.Close()
}

func newEntry(key string, data []byte, ttl time.Duration, tags []string, now time.Time) *domain.CacheEntry {
	entry := &domain.CacheEntry{
		Key:       key,
		Data:      append(json.RawMessage(nil), data...),
		Tags:      append([]string(nil), tags...),
		CreatedAt: now,
	}
	if ttl > 0 {
		entry.ExpiresAt = now.Add(ttl)
	}
	return entry
}
