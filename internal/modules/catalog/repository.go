package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles plan catalog persistence
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new catalog repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "catalog").Logger(),
	}
}

// Upsert inserts or replaces a plan by id
func (r *Repository) Upsert(plan Plan) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}

	rateJSON, err := json.Marshal(plan.Rate)
	if err != nil {
		return fmt.Errorf("failed to marshal rate structure: %w", err)
	}

	query := `
		INSERT INTO plans (
			id, name, supplier, rate_structure, contract_length_months,
			early_termination_fee, renewable_percentage, monthly_fee,
			connection_fee, supplier_rating, region, active, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			supplier = excluded.supplier,
			rate_structure = excluded.rate_structure,
			contract_length_months = excluded.contract_length_months,
			early_termination_fee = excluded.early_termination_fee,
			renewable_percentage = excluded.renewable_percentage,
			monthly_fee = excluded.monthly_fee,
			connection_fee = excluded.connection_fee,
			supplier_rating = excluded.supplier_rating,
			region = excluded.region,
			active = excluded.active,
			updated_at = excluded.updated_at
	`

	var rating interface{}
	if plan.SupplierRating != nil {
		rating = *plan.SupplierRating
	}

	_, err = r.db.Exec(
		query,
		plan.ID,
		plan.Name,
		plan.Supplier,
		string(rateJSON),
		plan.ContractLengthMonths,
		plan.EarlyTerminationFee,
		plan.RenewablePercentage,
		plan.MonthlyFee,
		plan.ConnectionFee,
		rating,
		plan.Region,
		boolToInt(plan.Active),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert plan %s: %w", plan.ID, err)
	}

	return nil
}

// GetByID retrieves a single plan. Returns nil when not found.
func (r *Repository) GetByID(id string) (*Plan, error) {
	query := selectColumns + ` FROM plans WHERE id = ?`

	row := r.db.QueryRow(query, id)
	plan, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan %s: %w", id, err)
	}

	return plan, nil
}

// ListActive returns active plans, optionally filtered by region.
// The pipeline assumes this list is already eligible and does not
// re-filter by geography.
func (r *Repository) ListActive(region string) ([]Plan, error) {
	query := selectColumns + ` FROM plans WHERE active = 1`
	args := []interface{}{}
	if region != "" {
		query += ` AND (region = ? OR region = '')`
		args = append(args, region)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			r.log.Warn().Err(err).Msg("Skipping unreadable plan row")
			continue
		}
		plans = append(plans, *plan)
	}

	return plans, rows.Err()
}

// Deactivate marks a plan inactive without deleting it
func (r *Repository) Deactivate(id string) error {
	result, err := r.db.Exec(
		`UPDATE plans SET active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate plan %s: %w", id, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("plan %s not found", id)
	}

	return nil
}

// Count returns the total number of plans in the catalog
func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM plans`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count plans: %w", err)
	}
	return count, nil
}

const selectColumns = `
	SELECT id, name, supplier, rate_structure, contract_length_months,
	       early_termination_fee, renewable_percentage, monthly_fee,
	       connection_fee, supplier_rating, region, active, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*Plan, error) {
	var (
		plan      Plan
		rateJSON  string
		rating    sql.NullFloat64
		active    int
		updatedAt string
	)

	err := row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.Supplier,
		&rateJSON,
		&plan.ContractLengthMonths,
		&plan.EarlyTerminationFee,
		&plan.RenewablePercentage,
		&plan.MonthlyFee,
		&plan.ConnectionFee,
		&rating,
		&plan.Region,
		&active,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(rateJSON), &plan.Rate); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rate structure for plan %s: %w", plan.ID, err)
	}

	if rating.Valid {
		val := rating.Float64
		plan.SupplierRating = &val
	}
	plan.Active = active != 0
	plan.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &plan, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
