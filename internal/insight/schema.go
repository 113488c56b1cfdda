package insight

import (
	"context"
	"fmt"
)

// schemaSQL defines the insight table this repository owns.
const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS atlas;

CREATE TABLE IF NOT EXISTS atlas.insights (
    iso_code     CHAR(3) NOT NULL,
    category     TEXT NOT NULL,
    summary      TEXT NOT NULL DEFAULT '',
    implication  TEXT NOT NULL DEFAULT '',
    images       JSONB NOT NULL DEFAULT '[]',
    key_stats    JSONB NOT NULL DEFAULT '[]',
    status       TEXT NOT NULL DEFAULT 'pending',
    generated_at TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (iso_code, category)
);

CREATE INDEX IF NOT EXISTS idx_insights_status ON atlas.insights(status);
CREATE INDEX IF NOT EXISTS idx_insights_stale
    ON atlas.insights(generated_at) WHERE status = 'completed';
`

// EnsureSchema creates the insight table if it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure insight schema: %w", err)
	}
	return nil
}
