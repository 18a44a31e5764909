package recommendation

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS recommendations (
    uuid        TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    fingerprint TEXT NOT NULL,
    result_json TEXT NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_recommendations_user ON recommendations(user_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_fingerprint ON recommendations(fingerprint);

CREATE TABLE IF NOT EXISTS recommendation_cache (
    cache_key  TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cache_expiry ON recommendation_cache(expires_at);
`

// InitSchema creates the recommendation tables
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
