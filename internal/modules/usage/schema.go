package usage

import "database/sql"

// UsageSchema defines the usage_history table in usage.db
const UsageSchema = `
CREATE TABLE IF NOT EXISTS usage_history (
    id INTEGER PRIMARY KEY,
    user_id TEXT NOT NULL,
    month TEXT NOT NULL,
    kwh REAL NOT NULL,
    created_at TEXT NOT NULL,
    UNIQUE(user_id, month)
);

CREATE INDEX IF NOT EXISTS idx_usage_history_user ON usage_history(user_id);
`

// InitSchema ensures the usage_history table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(UsageSchema)
	return err
}
