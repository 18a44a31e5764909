package usage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wattadvisor/wattadvisor/internal/domain"
)

const monthLayout = "2006-01-02"

// Repository persists monthly usage points per user
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new usage repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "usage").Logger(),
	}
}

// Record upserts one monthly reading for a user
func (r *Repository) Record(userID string, point domain.MonthlyUsagePoint) error {
	month := time.Date(point.Month.Year(), point.Month.Month(), 1, 0, 0, 0, 0, time.UTC)

	_, err := r.db.Exec(`
		INSERT INTO usage_history (user_id, month, kwh, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, month) DO UPDATE SET
			kwh = excluded.kwh,
			created_at = excluded.created_at
	`,
		userID,
		month.Format(monthLayout),
		point.KWh,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record usage for %s: %w", userID, err)
	}

	return nil
}

// RecordBatch upserts a set of readings for a user
func (r *Repository) RecordBatch(userID string, points []domain.MonthlyUsagePoint) error {
	for _, point := range points {
		if err := r.Record(userID, point); err != nil {
			return err
		}
	}
	return nil
}

// History returns all readings for a user in month order
func (r *Repository) History(userID string) ([]domain.MonthlyUsagePoint, error) {
	rows, err := r.db.Query(`
		SELECT month, kwh FROM usage_history
		WHERE user_id = ?
		ORDER BY month
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage history for %s: %w", userID, err)
	}
	defer rows.Close()

	var points []domain.MonthlyUsagePoint
	for rows.Next() {
		var (
			monthStr string
			kwh      float64
		)
		if err := rows.Scan(&monthStr, &kwh); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}

		month, err := time.Parse(monthLayout, monthStr)
		if err != nil {
			r.log.Warn().Str("month", monthStr).Msg("Skipping unparseable usage month")
			continue
		}

		points = append(points, domain.MonthlyUsagePoint{Month: month, KWh: kwh})
	}

	return points, rows.Err()
}

// Clear removes all readings for a user
func (r *Repository) Clear(userID string) error {
	_, err := r.db.Exec(`DELETE FROM usage_history WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear usage history for %s: %w", userID, err)
	}
	return nil
}
