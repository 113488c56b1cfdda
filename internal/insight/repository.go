package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oshpulse/atlas/internal/domain"
)

// Repository persists insight records keyed by (ISO code, category).
// It implements domain.InsightStore.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const insightColumns = `
	iso_code, category, summary, implication,
	images, key_stats, status, generated_at
`

// scanInsight reads one row including the JSONB columns.
func scanInsight(row pgx.Row) (*domain.Insight, error) {
	var (
		ins          domain.Insight
		imagesJSON   []byte
		keyStatsJSON []byte
	)
	if err := row.Scan(
		&ins.ISOCode, &ins.Category, &ins.Summary, &ins.Implication,
		&imagesJSON, &keyStatsJSON, &ins.Status, &ins.GeneratedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(imagesJSON, &ins.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}
	if err := json.Unmarshal(keyStatsJSON, &ins.KeyStats); err != nil {
		return nil, fmt.Errorf("unmarshal key stats: %w", err)
	}
	return &ins, nil
}

// Get returns one insight record, or nil when none exists.
func (r *Repository) Get(ctx context.Context, iso string, category domain.Category) (*domain.Insight, error) {
	query := `
		SELECT ` + insightColumns + `
		FROM atlas.insights
		WHERE iso_code = $1 AND category = $2
	`

	ins, err := scanInsight(r.db.QueryRow(ctx, query, iso, category))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query insight %s/%s: %w", iso, category, err)
	}

	return ins, nil
}

// ListByCountry returns every insight record for a country ordered by
// category.
func (r *Repository) ListByCountry(ctx context.Context, iso string) ([]domain.Insight, error) {
	query := `
		SELECT ` + insightColumns + `
		FROM atlas.insights
		WHERE iso_code = $1
		ORDER BY category
	`

	rows, err := r.db.Query(ctx, query, iso)
	if err != nil {
		return nil, fmt.Errorf("query insights for %s: %w", iso, err)
	}
	defer rows.Close()

	var insights []domain.Insight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		insights = append(insights, *ins)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return insights, nil
}

// ListStale returns completed records whose generation timestamp is
// older than the cutoff, oldest first.
func (r *Repository) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]domain.Insight, error) {
	query := `
		SELECT ` + insightColumns + `
		FROM atlas.insights
		WHERE status = 'completed' AND generated_at < $1
		ORDER BY generated_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale insights: %w", err)
	}
	defer rows.Close()

	var insights []domain.Insight
	for rows.Next() {
		ins, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		insights = append(insights, *ins)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return insights, nil
}

// Claim transitions a record to generating, creating it if needed.
// The conditional upsert makes the claim atomic: it reports false when
// another generation already holds the record.
func (r *Repository) Claim(ctx context.Context, iso string, category domain.Category) (bool, error) {
	if !domain.ValidISOCode(iso) {
		return false, fmt.Errorf("invalid ISO code %q", iso)
	}
	if !category.Valid() {
		return false, fmt.Errorf("unknown category %q", category)
	}

	query := `
		INSERT INTO atlas.insights AS i (iso_code, category, status, created_at, updated_at)
		VALUES ($1, $2, 'generating', NOW(), NOW())
		ON CONFLICT (iso_code, category) DO UPDATE SET
			status = 'generating',
			updated_at = NOW()
		WHERE i.status <> 'generating'
	`

	tag, err := r.db.Exec(ctx, query, iso, category)
	if err != nil {
		return false, fmt.Errorf("claim insight %s/%s: %w", iso, category, err)
	}

	return tag.RowsAffected() == 1, nil
}

// Complete stores generated content, marks the record completed, and
// stamps the generation timestamp.
func (r *Repository) Complete(ctx context.Context, ins *domain.Insight) error {
	images := ins.Images
	if images == nil {
		images = []string{}
	}
	keyStats := ins.KeyStats
	if keyStats == nil {
		keyStats = []domain.KeyStat{}
	}

	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}
	keyStatsJSON, err := json.Marshal(keyStats)
	if err != nil {
		return fmt.Errorf("marshal key stats: %w", err)
	}

	query := `
		UPDATE atlas.insights SET
			summary = $3,
			implication = $4,
			images = $5,
			key_stats = $6,
			status = 'completed',
			generated_at = NOW(),
			updated_at = NOW()
		WHERE iso_code = $1 AND category = $2
	`

	tag, err := r.db.Exec(ctx, query,
		ins.ISOCode, ins.Category,
		ins.Summary, ins.Implication,
		imagesJSON, keyStatsJSON,
	)
	if err != nil {
		return fmt.Errorf("complete insight %s/%s: %w", ins.ISOCode, ins.Category, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete insight %s/%s: record not found", ins.ISOCode, ins.Category)
	}

	return nil
}

// Fail marks a record as errored. Stored content and the generation
// timestamp stay untouched, so the last good narrative survives a
// failed regeneration.
func (r *Repository) Fail(ctx context.Context, iso string, category domain.Category) error {
	query := `
		UPDATE atlas.insights SET
			status = 'error',
			updated_at = NOW()
		WHERE iso_code = $1 AND category = $2
	`

	if _, err := r.db.Exec(ctx, query, iso, category); err != nil {
		return fmt.Errorf("fail insight %s/%s: %w", iso, category, err)
	}

	return nil
}

// CountByStatus returns how many records sit in each lifecycle status.
func (r *Repository) CountByStatus(ctx context.Context) (map[domain.InsightStatus]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM atlas.insights GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count insights: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.InsightStatus]int)
	for rows.Next() {
		var (
			status domain.InsightStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return counts, nil
}
