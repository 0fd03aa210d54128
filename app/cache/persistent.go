package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/nexus-news/app/database"
)

// Persistent applies the Memory TTL policy to responses stored in SQLite so
// they survive restarts. Repository errors are logged and count as misses.
type Persistent struct {
	repo  database.ResponseRepository
	ttl   time.Duration
	clock Clock

	mu    sync.Mutex
	stats Stats
}

func NewPersistent(repo database.ResponseRepository, ttl time.Duration, clock Clock) *Persistent {
	return &Persistent{
		repo:  repo,
		ttl:   ttl,
		clock: clock,
	}
}

func (p *Persistent) Get(key string) ([]byte, bool) {
	if p.ttl <= 0 {
		p.count(func(s *Stats) { s.Misses++ })
		return nil, false
	}

	response, err := p.repo.GetResponse(key)
	if err != nil {
		slog.Warn("Failed to read cached response", "key", key, "error", err)
		p.count(func(s *Stats) { s.Misses++ })
		return nil, false
	}
	if response == nil {
		p.count(func(s *Stats) { s.Misses++ })
		return nil, false
	}

	if expired(response.StoredAt, p.clock.now(), p.ttl) {
		if err := p.repo.DeleteResponse(key); err != nil {
			slog.Warn("Failed to delete expired response", "key", key, "error", err)
		}
		p.count(func(s *Stats) { s.Misses++; s.Evicted++ })
		return nil, false
	}

	p.count(func(s *Stats) { s.Hits++ })
	return response.Body, true
}

func (p *Persistent) Set(key string, value []byte) {
	if p.ttl <= 0 {
		return
	}

	err := p.repo.UpsertResponse(database.CachedResponse{
		Key:      key,
		Body:     value,
		StoredAt: p.clock.now(),
	})
	if err != nil {
		slog.Warn("Failed to store response", "key", key, "error", err)
		return
	}

	p.count(func(s *Stats) { s.Sets++ })
}

func (p *Persistent) Purge() int {
	cutoff := p.clock.now().Add(-p.ttl)
	if p.ttl <= 0 {
		cutoff = p.clock.now()
	}

	deleted, err := p.repo.DeleteResponsesBefore(cutoff)
	if err != nil {
		slog.Warn("Failed to purge cached responses", "error", err)
		return 0
	}

	p.count(func(s *Stats) { s.Evicted += uint64(deleted) })
	return int(deleted)
}

func (p *Persistent) Stats() Stats {
	p.mu.Lock()
	stats := p.stats
	p.mu.Unlock()

	count, err := p.repo.GetResponseCount()
	if err != nil {
		slog.Warn("Failed to count cached responses", "error", err)
	}
	stats.Entries = count
	stats.TTL = p.ttl.String()
	return stats
}

func (p *Persistent) count(update func(s *Stats)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	update(&p.stats)
}
