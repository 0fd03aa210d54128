package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteResponseRepository stores raw provider responses keyed by cache key.
type SQLiteResponseRepository struct {
	db *DB
}

func NewResponseRepository(db *DB) *SQLiteResponseRepository {
	return &SQLiteResponseRepository{db: db}
}

// GetResponse returns nil without error when the key is not stored.
func (r *SQLiteResponseRepository) GetResponse(key string) (*CachedResponse, error) {
	var response CachedResponse
	var storedAt int64

	err := r.db.QueryRow(`
		SELECT cache_key, body, stored_at
		FROM response_cache
		WHERE cache_key = ?
	`, key).Scan(&response.Key, &response.Body, &storedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get response: %w", err)
	}

	response.StoredAt = time.Unix(0, storedAt)
	return &response, nil
}

func (r *SQLiteResponseRepository) UpsertResponse(response CachedResponse) error {
	_, err := r.db.Exec(`
		INSERT INTO response_cache (cache_key, body, stored_at)
		VALUES (?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			body = excluded.body,
			stored_at = excluded.stored_at
	`, response.Key, response.Body, response.StoredAt.UnixNano())

	if err != nil {
		return fmt.Errorf("failed to upsert response: %w", err)
	}

	return nil
}

func (r *SQLiteResponseRepository) DeleteResponse(key string) error {
	_, err := r.db.Exec(`DELETE FROM response_cache WHERE cache_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete response: %w", err)
	}
	return nil
}

// DeleteResponsesBefore removes responses stored at or before cutoff and
// returns how many were removed.
func (r *SQLiteResponseRepository) DeleteResponsesBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM response_cache WHERE stored_at <= ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired responses: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted responses: %w", err)
	}

	return deleted, nil
}

func (r *SQLiteResponseRepository) GetResponseCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM response_cache").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get response count: %w", err)
	}
	return count, nil
}
