package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/domain"
)

// sweepInterval bounds how often Set scans for expired entries.
const sweepInterval = time.Minute

// MemoryStore is an in-process Store. Expired entries are dropped on read and
// by a sweep that Set runs at most once per sweepInterval.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]*domain.CacheEntry
	tags      map[string]map[string]struct{}
	now       func() time.Time
	lastSweep time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*domain.CacheEntry),
		tags:    make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	if !entry.Permanent() && !m.now().Before(entry.ExpiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur == entry {
			m.removeLocked(key)
		}
		m.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return cloneEntry(entry), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, data []byte, ttl time.Duration, tags []string) error {
	if len(data) > 0 && !json.Valid(data) {
		return fmt.Errorf("failed to set in memory: data for %s is not valid JSON", key)
	}

	now := m.now()
	entry := newEntry(key, data, ttl, tags, now)

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= sweepInterval {
		m.sweepLocked(now)
	}

	// Drop the previous entry's tags so invalidating them spares this entry.
	m.removeLocked(key)
	m.entries[key] = entry
	for _, tag := range entry.Tags {
		keys, ok := m.tags[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.tags[tag] = keys
		}
		keys[key] = struct{}{}
	}

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		m.removeLocked(k)
	}
	return nil
}

func (m *MemoryStore) InvalidateTags(_ context.Context, tags ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tag := range tags {
		for k := range m.tags[tag] {
			m.removeLocked(k)
		}
		delete(m.tags, tag)
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// removeLocked deletes key and unlists it from its tags. m.mu must be held.
func (m *MemoryStore) removeLocked(key string) {
	entry, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range entry.Tags {
		keys := m.tags[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(m.tags, tag)
		}
	}
}

// sweepLocked removes every entry expired at now. m.mu must be held.
func (m *MemoryStore) sweepLocked(now time.Time) {
	for key, entry := range m.entries {
		if !entry.Permanent() && !now.Before(entry.ExpiresAt) {
			m.removeLocked(key)
		}
	}
	m.lastSweep = now
}

func cloneEntry(e *domain.CacheEntry) *domain.CacheEntry {
	c := *e
	c.Data = append(json.RawMessage(nil), e.Data...)
	c.Tags = append([]string(nil), e.Tags...)
	return &c
}
