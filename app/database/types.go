package database

import (
	"time"
)

type CachedResponse struct {
	Key      string
	Body     []byte
	StoredAt time.Time
}
