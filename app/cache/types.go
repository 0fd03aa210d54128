package cache

import (
	"time"
)

// Clock returns the current time. A nil Clock means time.Now.
type Clock func() time.Time

type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Purge() int
	Stats() Stats
}

type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Sets    uint64 `json:"sets"`
	Evicted uint64 `json:"evicted"`
	TTL     string `json:"ttl"`
}

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
