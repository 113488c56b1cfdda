package country

import (
	"context"
	"fmt"
)

// schemaSQL defines the tables this repository owns.
const schemaSQL = `
CREATE SCHEMA IF NOT EXISTS atlas;

CREATE TABLE IF NOT EXISTS atlas.countries (
    iso_code             CHAR(3) PRIMARY KEY,
    name                 TEXT NOT NULL,
    region               TEXT NOT NULL DEFAULT '',
    governance_score     DOUBLE PRECISION,
    hazard_control_score DOUBLE PRECISION,
    vigilance_score      DOUBLE PRECISION,
    restoration_score    DOUBLE PRECISION,
    maturity_score       DOUBLE PRECISION,
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_countries_region ON atlas.countries(region);

CREATE TABLE IF NOT EXISTS atlas.economic_snapshots (
    iso_code            CHAR(3) PRIMARY KEY,
    gdp_per_capita      DOUBLE PRECISION,
    unemployment_rate   DOUBLE PRECISION,
    informal_employment DOUBLE PRECISION,
    health_expenditure  DOUBLE PRECISION,
    source              TEXT NOT NULL DEFAULT '',
    fetched_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the country tables if they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure country schema: %w", err)
	}
	return nil
}
