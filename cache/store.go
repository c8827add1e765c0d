package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// entry is one cached payload with its write-time freshness rule.
type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// fresh reports whether the entry is still within its TTL.
func (e *entry) fresh(now time.Time) bool {
	return now.Sub(e.storedAt) < e.ttl
}

// Stats is a point-in-time snapshot of store counters.
type Stats struct {
	Size        int    `json:"size"`
	MaxSize     int    `json:"max_size"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`
}

// Store is a bounded TTL-aware key/value store with LRU eviction.
// All operations are safe for concurrent use.
type Store struct {
	config Config

	mu        sync.Mutex
	lru       *simplelru.LRU[string, *entry]
	removing  bool // suppresses the eviction callback during explicit removal
	evictions atomic.Uint64

	hits        atomic.Uint64
	misses      atomic.Uint64
	expirations atomic.Uint64
}

// New creates a new store.
func New(config Config) (*Store, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Store{config: config}

	lru, err := simplelru.NewLRU(config.MaxSize, s.onEvicted)
	if err != nil {
		return nil, err
	}
	s.lru = lru
	return s, nil
}

// Get returns the value for key if present and fresh. An expired entry is
// removed and reported as a miss.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	e, ok := s.lru.Get(key)
	if ok && !e.fresh(time.Now()) {
		s.removeLocked(key)
		s.mu.Unlock()

		s.expirations.Add(1)
		if s.config.OnExpire != nil {
			s.config.OnExpire(s.config.Name, key)
		}
		s.miss(key)
		return nil, false
	}
	s.mu.Unlock()

	if !ok {
		s.miss(key)
		return nil, false
	}

	s.hits.Add(1)
	if s.config.OnHit != nil {
		s.config.OnHit(s.config.Name, key)
	}
	return e.value, true
}

// Set stores value under key, overwriting any existing entry. A
// non-positive ttl falls back to the configured default.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.config.DefaultTTL
	}

	s.mu.Lock()
	s.lru.Add(key, &entry{
		value:    value,
		storedAt: time.Now(),
		ttl:      ttl,
	})
	s.mu.Unlock()
}

// Delete removes key from the store. Returns true if an entry was removed.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(key)
}

// Purge removes every entry.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.lru.Len()
	s.removing = true
	s.lru.Purge()
	s.removing = false
	return n
}

// Len returns the current number of entries, including any not yet
// lazily expired.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Len()
}

// Stats returns a snapshot of the store counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	size := s.lru.Len()
	s.mu.Unlock()

	return Stats{
		Size:        size,
		MaxSize:     s.config.MaxSize,
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Evictions:   s.evictions.Load(),
		Expirations: s.expirations.Load(),
	}
}

// removeLocked removes a key without counting it as a capacity eviction.
// Caller must hold s.mu.
func (s *Store) removeLocked(key string) bool {
	s.removing = true
	ok := s.lru.Remove(key)
	s.removing = false
	return ok
}

// onEvicted is invoked by the LRU on every removal; only capacity
// evictions are counted and reported.
func (s *Store) onEvicted(key string, _ *entry) {
	if s.removing {
		return
	}
	s.evictions.Add(1)
	if s.config.OnEvict != nil {
		s.config.OnEvict(s.config.Name, key)
	}
}

// miss records a miss and fires the callback.
func (s *Store) miss(key string) {
	s.misses.Add(1)
	if s.config.OnMiss != nil {
		s.config.OnMiss(s.config.Name, key)
	}
}
