package catalog

import "database/sql"

// PlansSchema defines the plans table in catalog.db.
// The rate structure is stored as a JSON blob: its shape varies per rate
// type and the pipeline only ever reads it back whole.
const PlansSchema = `
CREATE TABLE IF NOT EXISTS plans (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    supplier TEXT NOT NULL,
    rate_structure TEXT NOT NULL,
    contract_length_months INTEGER NOT NULL DEFAULT 0,
    early_termination_fee REAL NOT NULL DEFAULT 0,
    renewable_percentage REAL NOT NULL DEFAULT 0,
    monthly_fee REAL NOT NULL DEFAULT 0,
    connection_fee REAL NOT NULL DEFAULT 0,
    supplier_rating REAL,
    region TEXT NOT NULL DEFAULT '',
    active INTEGER NOT NULL DEFAULT 1,
    updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_plans_region ON plans(region);
CREATE INDEX IF NOT EXISTS idx_plans_active ON plans(active);
`

// InitSchema ensures the plans table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(PlansSchema)
	return err
}
