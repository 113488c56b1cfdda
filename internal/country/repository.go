package country

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oshpulse/atlas/internal/domain"
)

// Repository handles country and economic snapshot persistence.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List returns every country ordered by ISO code.
func (r *Repository) List(ctx context.Context) ([]domain.Country, error) {
	query := `
		SELECT
			iso_code, name, region,
			governance_score, hazard_control_score,
			vigilance_score, restoration_score, maturity_score,
			updated_at
		FROM atlas.countries
		ORDER BY iso_code
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query countries: %w", err)
	}
	defer rows.Close()

	var countries []domain.Country
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(
			&c.ISOCode, &c.Name, &c.Region,
			&c.Governance, &c.HazardControl,
			&c.Vigilance, &c.Restoration, &c.Maturity,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return countries, nil
}

// Get returns one country, or nil when the code is unknown.
func (r *Repository) Get(ctx context.Context, iso string) (*domain.Country, error) {
	query := `
		SELECT
			iso_code, name, region,
			governance_score, hazard_control_score,
			vigilance_score, restoration_score, maturity_score,
			updated_at
		FROM atlas.countries
		WHERE iso_code = $1
	`

	var c domain.Country
	err := r.db.QueryRow(ctx, query, iso).Scan(
		&c.ISOCode, &c.Name, &c.Region,
		&c.Governance, &c.HazardControl,
		&c.Vigilance, &c.Restoration, &c.Maturity,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query country %s: %w", iso, err)
	}

	return &c, nil
}

// SaveAll bulk-upserts country records in one transaction.
// ⭐ SSOT: country writes happen only here; every record is validated
// and a single bad record aborts the whole batch.
func (r *Repository) SaveAll(ctx context.Context, countries []domain.Country) error {
	if len(countries) == 0 {
		return nil
	}

	query := `
		INSERT INTO atlas.countries (
			iso_code, name, region,
			governance_score, hazard_control_score,
			vigilance_score, restoration_score, maturity_score,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (iso_code) DO UPDATE SET
			name = EXCLUDED.name,
			region = EXCLUDED.region,
			governance_score = EXCLUDED.governance_score,
			hazard_control_score = EXCLUDED.hazard_control_score,
			vigilance_score = EXCLUDED.vigilance_score,
			restoration_score = EXCLUDED.restoration_score,
			maturity_score = EXCLUDED.maturity_score,
			updated_at = NOW()
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range countries {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate country: %w", err)
		}
		if _, err := tx.Exec(ctx, query,
			c.ISOCode, c.Name, c.Region,
			c.Governance, c.HazardControl,
			c.Vigilance, c.Restoration, c.Maturity,
		); err != nil {
			return fmt.Errorf("insert country %s: %w", c.ISOCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Count returns the number of stored countries.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM atlas.countries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count countries: %w", err)
	}
	return n, nil
}

// GetIntelligence returns the economic snapshot for a country, or nil
// when none has been ingested.
func (r *Repository) GetIntelligence(ctx context.Context, iso string) (*domain.CountryIntelligence, error) {
	query := `
		SELECT
			iso_code, gdp_per_capita, unemployment_rate,
			informal_employment, health_expenditure,
			source, fetched_at
		FROM atlas.economic_snapshots
		WHERE iso_code = $1
	`

	var ci domain.CountryIntelligence
	err := r.db.QueryRow(ctx, query, iso).Scan(
		&ci.ISOCode, &ci.GDPPerCapita, &ci.UnemploymentRate,
		&ci.InformalEmployment, &ci.HealthExpenditure,
		&ci.Source, &ci.FetchedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query snapshot %s: %w", iso, err)
	}

	return &ci, nil
}

// SaveIntelligence bulk-upserts economic snapshots in one transaction.
func (r *Repository) SaveIntelligence(ctx context.Context, snapshots []domain.CountryIntelligence) error {
	if len(snapshots) == 0 {
		return nil
	}

	query := `
		INSERT INTO atlas.economic_snapshots (
			iso_code, gdp_per_capita, unemployment_rate,
			informal_employment, health_expenditure,
			source, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (iso_code) DO UPDATE SET
			gdp_per_capita = EXCLUDED.gdp_per_capita,
			unemployment_rate = EXCLUDED.unemployment_rate,
			informal_employment = EXCLUDED.informal_employment,
			health_expenditure = EXCLUDED.health_expenditure,
			source = EXCLUDED.source,
			fetched_at = NOW()
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, s := range snapshots {
		if !domain.ValidISOCode(s.ISOCode) {
			return fmt.Errorf("invalid ISO code %q in snapshot", s.ISOCode)
		}
		if _, err := tx.Exec(ctx, query,
			s.ISOCode, s.GDPPerCapita, s.UnemploymentRate,
			s.InformalEmployment, s.HealthExpenditure,
			s.Source,
		); err != nil {
			return fmt.Errorf("insert snapshot %s: %w", s.ISOCode, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
