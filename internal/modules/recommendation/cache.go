package recommendation

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Cache is a TTL key-value store for serialized recommendation results.
// Consulting it is optional: the pipeline produces identical output
// with or without a hit.
type Cache struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewCache creates a new recommendation cache
func NewCache(db *sql.DB, log zerolog.Logger) *Cache {
	return &Cache{
		db:  db,
		log: log.With().Str("component", "recommendation_cache").Logger(),
	}
}

// Get returns the cached payload for the key, or false when the entry
// is absent or expired.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var payload string
	var expiresAt int64

	err := c.db.QueryRow(
		`SELECT payload, expires_at FROM recommendation_cache WHERE cache_key = ?`, key,
	).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if time.Now().Unix() >= expiresAt {
		return nil, false, nil
	}

	return []byte(payload), true, nil
}

// Set stores a payload under the key with the given TTL, replacing any
// previous entry.
func (c *Cache) Set(key string, payload []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).Unix()

	_, err := c.db.Exec(`
		INSERT INTO recommendation_cache (cache_key, payload, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			payload = excluded.payload,
			expires_at = excluded.expires_at`,
		key, string(payload), expiresAt)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Invalidate removes one entry
func (c *Cache) Invalidate(key string) error {
	_, err := c.db.Exec(`DELETE FROM recommendation_cache WHERE cache_key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}
	return nil
}

// Sweep deletes every expired entry and returns how many were removed
func (c *Cache) Sweep() (int64, error) {
	result, err := c.db.Exec(
		`DELETE FROM recommendation_cache WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep cache: %w", err)
	}

	removed, _ := result.RowsAffected()
	if removed > 0 {
		c.log.Debug().Int64("removed", removed).Msg("Swept expired cache entries")
	}
	return removed, nil
}
