package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value    []byte
	storedAt time.Time
}

// Memory is an in-process TTL cache. Expired entries are dropped lazily on
// Get and in bulk by Purge.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	entries map[string]entry
	stats   Stats
}

// NewMemory returns a cache whose entries live for ttl. A ttl of zero or
// less disables caching: Set is a no-op and every Get misses.
func NewMemory(ttl time.Duration, clock Clock) *Memory {
	return &Memory{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]entry),
	}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		m.stats.Misses++
		return nil, false
	}

	if expired(e.storedAt, m.clock.now(), m.ttl) {
		delete(m.entries, key)
		m.stats.Evicted++
		m.stats.Misses++
		return nil, false
	}

	m.stats.Hits++
	return e.value, true
}

func (m *Memory) Set(key string, value []byte) {
	if m.ttl <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{value: value, storedAt: m.clock.now()}
	m.stats.Sets++
}

// Purge removes every expired entry and returns how many were removed.
func (m *Memory) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.now()
	removed := 0
	for key, e := range m.entries {
		if expired(e.storedAt, now, m.ttl) {
			delete(m.entries, key)
			removed++
		}
	}

	m.stats.Evicted += uint64(removed)
	return removed
}

func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.stats
	stats.Entries = len(m.entries)
	stats.TTL = m.ttl.String()
	return stats
}

func expired(storedAt, now time.Time, ttl time.Duration) bool {
	return ttl <= 0 || now.Sub(storedAt) >= ttl
}

// GenerateKey derives a stable cache key from its parts.
func GenerateKey(prefix string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return prefix + ":" + hex.EncodeToString(hash[:])
}
