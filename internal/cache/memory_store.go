package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spacesedan/mood2emoji/internal/metrics"
)

const DefaultMaxEntries = 10000

// MemoryStore keeps polarity scores in process with a fixed TTL. It holds at
// most maxEntries scores; when full, expired entries go first, then the
// entry closest to expiry.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	clock      clockwork.Clock
}

type entry struct {
	score     float64
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration, maxEntries int, clock clockwork.Clock) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryStore{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		clock:      clock,
	}
}

// Get returns the score for key if present and not expired. Expired
// entries stay until the next eviction pass.
func (m *MemoryStore) Get(_ context.Context, key string) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || m.clock.Now().After(e.expiresAt) {
		return 0, false, nil
	}
	return e.score, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, score float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		m.makeRoomLocked()
	}

	m.entries[key] = entry{
		score:     score,
		expiresAt: m.clock.Now().Add(m.ttl),
	}
	return nil
}

func (m *MemoryStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// makeRoomLocked drops expired entries, or the one expiring soonest when
// nothing has expired. Caller holds m.mu.
func (m *MemoryStore) makeRoomLocked() {
	if m.evictExpiredLocked() > 0 {
		return
	}

	var oldestKey string
	var oldest time.Time
	for key, e := range m.entries {
		if oldestKey == "" || e.expiresAt.Before(oldest) {
			oldestKey, oldest = key, e.expiresAt
		}
	}
	delete(m.entries, oldestKey)
}

// EvictExpired removes expired entries and returns how many were dropped.
func (m *MemoryStore) EvictExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictExpiredLocked()
}

func (m *MemoryStore) evictExpiredLocked() int {
	now := m.clock.Now()
	evicted := 0
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
			evicted++
		}
	}
	return evicted
}

// StartEvictionTimer evicts expired entries every interval until the
// returned stop function is called.
func (m *MemoryStore) StartEvictionTimer(interval time.Duration) func() {
	ticker := m.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				if evicted := m.EvictExpired(); evicted > 0 {
					slog.Debug("[MemoryStore] Evicted expired polarity entries",
						slog.Int("count", evicted),
						slog.Int("remaining", m.Size()))
				}
				metrics.OracleCacheSize.Set(float64(m.Size()))
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
