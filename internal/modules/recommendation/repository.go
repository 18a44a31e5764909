package recommendation

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository persists completed recommendation results
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new recommendation repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "recommendation").Logger(),
	}
}

// Save stores a result and returns its generated UUID
func (r *Repository) Save(result *Result) (string, error) {
	id := uuid.New().String()
	result.UUID = id

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO recommendations (uuid, user_id, fingerprint, result_json, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, result.UserID, result.Fingerprint, string(payload), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to save recommendation: %w", err)
	}

	r.log.Debug().Str("uuid", id).Str("user_id", result.UserID).Msg("Recommendation saved")
	return id, nil
}

// GetByUUID returns a stored result, or nil when not found
func (r *Repository) GetByUUID(id string) (*Result, error) {
	var payload string
	err := r.db.QueryRow(
		`SELECT result_json FROM recommendations WHERE uuid = ?`, id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation %s: %w", id, err)
	}

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendation %s: %w", id, err)
	}
	return &result, nil
}

// ListByUser returns the stored result UUIDs for one user, newest first
func (r *Repository) ListByUser(userID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT uuid FROM recommendations
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
