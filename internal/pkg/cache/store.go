package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is applied when Set is called without an explicit TTL.
const DefaultTTL = 5 * time.Minute

// DefaultCleanupInterval bounds memory for keys that are never re-read.
const DefaultCleanupInterval = 10 * time.Minute

type entry struct {
	data      interface{}
	timestamp time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return now.Sub(e.timestamp) > e.ttl
}

// Store is an in-process key-value cache with per-entry TTL and
// substring-based bulk invalidation. All operations are total: there are
// no error conditions over the key space.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Set stores data under key with a timestamp of now. A zero or negative ttl
// falls back to DefaultTTL. Overwrites any existing entry.
func (s *Store) Set(key string, data interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{data: data, timestamp: s.now(), ttl: ttl}
	slog.Debug("cache set", "key", key, "ttl", ttl)
}

// Get returns the cached data for key, or (nil, false) if the key is absent
// or past its TTL. Stale entries are deleted on read.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		slog.Debug("cache miss", "key", key)
		return nil, false
	}
	if e.expired(s.now()) {
		delete(s.entries, key)
		slog.Debug("cache expired", "key", key, "age", s.now().Sub(e.timestamp))
		return nil, false
	}

	slog.Debug("cache hit", "key", key)
	return e.data, true
}

// Has reports whether key holds a valid (non-expired) entry.
func (s *Store) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Delete removes a single entry and reports whether anything was removed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[key]
	delete(s.entries, key)
	return ok
}

// Invalidate deletes every entry whose key contains pattern as a substring
// and returns the number of entries removed. Keys are formed as
// "{operation}-{serialized params}", so a pattern of "invoices" evicts every
// cached invoices query variant regardless of filter or page.
func (s *Store) Invalidate(pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.entries {
		if strings.Contains(key, pattern) {
			delete(s.entries, key)
			count++
		}
	}

	if count > 0 {
		slog.Debug("cache invalidated", "pattern", pattern, "count", count)
	}
	return count
}

// Clear empties the store entirely.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]entry)
	slog.Debug("cache cleared")
}

// Cleanup scans all entries and deletes those past their TTL, returning the
// number removed. Get already expires lazily; Cleanup bounds memory for keys
// that are never read again.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	count := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			count++
		}
	}

	if count > 0 {
		slog.Debug("cache cleanup", "evicted", count)
	}
	return count
}

// Len returns the number of entries currently held, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartCleanup runs Cleanup every interval until ctx is cancelled. A zero
// interval falls back to DefaultCleanupInterval.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}
