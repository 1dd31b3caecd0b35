package services

import (
	"github.com/fieldops/boardgate/internal/cache"
)

// CacheEntryView is one cache entry as reported by the diagnostics API.
type CacheEntryView struct {
	Key          string  `json:"key"`
	RemainingTTL float64 `json:"remainingTtlSeconds"`
	SizeBytes    int     `json:"sizeBytes"`
}

// DiagService exposes read-and-evict access to the gateway caches for
// operators.
type DiagService struct {
	stores map[string]*cache.Store
}

// NewDiagService creates a DiagService over named cache stores.
func NewDiagService(stores map[string]*cache.Store) *DiagService {
	return &DiagService{stores: stores}
}

// Entries lists the live entries of every store, keyed by store name,
// ordered by remaining TTL within each store.
func (s *DiagService) Entries() map[string][]CacheEntryView {
	out := make(map[string][]CacheEntryView, len(s.stores))
	for name, store := range s.stores {
		infos := store.Entries()
		views := make([]CacheEntryView, 0, len(infos))
		for _, e := range infos {
			views = append(views, CacheEntryView{
				Key:          e.Key,
				RemainingTTL: e.RemainingTTL.Seconds(),
				SizeBytes:    e.SizeBytes,
			})
		}
		out[name] = views
	}
	return out
}

// Evict removes one key from the named store. Reports whether the store
// exists; evicting an absent key is a no-op.
func (s *DiagService) Evict(storeName, key string) bool {
	store, ok := s.stores[storeName]
	if !ok {
		return false
	}
	store.Delete(key)
	return true
}
