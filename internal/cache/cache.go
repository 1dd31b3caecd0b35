// Package cache is a process-local TTL store for computed board
// aggregations. There is no capacity bound and no LRU: entries only ever
// leave by expiry or explicit invalidation, so callers must pick TTLs that
// match how stale a given aggregation may go.
package cache

import (
	"encoding/json"
	"sort"
	"sync"
	"time"
)

type entry struct {
	value     interface{}
	expiresAt time.Time
	sizeBytes int
}

// EntryInfo describes one live entry for diagnostics.
type EntryInfo struct {
	Key          string        `json:"key"`
	RemainingTTL time.Duration `json:"remainingTtl"`
	SizeBytes    int           `json:"sizeBytes"`
}

// Store is a concurrency-safe key/value store with per-entry expiry.
// An expired entry is logically absent from the moment its deadline passes,
// whether or not it has been physically removed yet. Sets overwrite
// unconditionally; concurrent writers to one key resolve last-write-wins.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration

	// now is swapped in tests to step time without sleeping.
	now func() time.Time
}

// New creates a Store whose Set uses defaultTTL.
func New(defaultTTL time.Duration) *Store {
	return &Store{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Get returns the value stored under key if it has not expired. A read past
// the deadline evicts the entry and reports a miss.
func (s *Store) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock: a fresh Set may have replaced the
		// expired entry in the meantime.
		if cur, ok := s.entries[key]; ok && !s.now().Before(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (s *Store) Set(key string, value interface{}) {
	s.SetTTL(key, value, s.defaultTTL)
}

// SetTTL stores value under key, replacing any prior entry, with
// expiry now+ttl.
func (s *Store) SetTTL(key string, value interface{}, ttl time.Duration) {
	e := entry{
		value:     value,
		sizeBytes: approximateSize(value),
	}
	s.mu.Lock()
	e.expiresAt = s.now().Add(ttl)
	s.entries[key] = e
	s.mu.Unlock()
}

// Delete removes key immediately.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of unexpired entries.
func (s *Store) Len() int {
	return len(s.Entries())
}

// Entries lists live entries sorted by remaining TTL, longest first.
func (s *Store) Entries() []EntryInfo {
	now := s.now()

	s.mu.RLock()
	out := make([]EntryInfo, 0, len(s.entries))
	for k, e := range s.entries {
		remaining := e.expiresAt.Sub(now)
		if remaining <= 0 {
			continue
		}
		out = append(out, EntryInfo{Key: k, RemainingTTL: remaining, SizeBytes: e.sizeBytes})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].RemainingTTL > out[j].RemainingTTL })
	return out
}

// approximateSize measures a payload by its serialized length: strings and
// byte slices count as-is, anything structured by its JSON encoding.
func approximateSize(v interface{}) int {
	switch t := v.(type) {
	case string:
		return len(t)
	case []byte:
		return len(t)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return 0
		}
		return len(b)
	}
}
