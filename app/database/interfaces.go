package database

import (
	"time"
)

type ResponseRepository interface {
	GetResponse(key string) (*CachedResponse, error)
	GetResponseCount() (int, error)

	UpsertResponse(response CachedResponse) error
	DeleteResponse(key string) error
	DeleteResponsesBefore(cutoff time.Time) (int64, error)
}
