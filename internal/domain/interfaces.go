package domain

import (
	"context"
	"time"
)

// CountryStore provides read access to country records.
type CountryStore interface {
	List(ctx context.Context) ([]Country, error)
	Get(ctx context.Context, iso string) (*Country, error)
}

// IntelligenceStore serves the optional economic snapshots.
// Get returns (nil, nil) when the country has no snapshot.
type IntelligenceStore interface {
	Get(ctx context.Context, iso string) (*CountryIntelligence, error)
}

// InsightStore persists generated insights keyed by (ISO, category).
// Get and the listing methods return records in any lifecycle status;
// Get returns (nil, nil) when no record exists.
type InsightStore interface {
	Get(ctx context.Context, iso string, category Category) (*Insight, error)
	ListByCountry(ctx context.Context, iso string) ([]Insight, error)
	// ListStale returns completed records whose generation timestamp
	// is older than the cutoff.
	ListStale(ctx context.Context, olderThan time.Time, limit int) ([]Insight, error)
	// Claim transitions a record to generating, creating it as needed.
	// It reports false when the record is already being generated.
	Claim(ctx context.Context, iso string, category Category) (bool, error)
	// Complete stores generated content and marks the record completed.
	Complete(ctx context.Context, insight *Insight) error
	// Fail marks the record as errored without touching stored content.
	Fail(ctx context.Context, iso string, category Category) error
}

// InsightGenerator produces narrative content for one (country,
// category). Implementations must respect ctx cancellation.
type InsightGenerator interface {
	Generate(ctx context.Context, country *Country, category Category) (*Insight, error)
}

// DegradedContentProvider supplies the clearly-marked filler shown
// when narrative content is missing or failed.
type DegradedContentProvider interface {
	Placeholder(country string, category Category) *NarrativeView
}

// BenchmarkProvider serves the versioned benchmark table loaded at
// startup.
type BenchmarkProvider interface {
	Get(indicator Indicator) (*Benchmark, bool)
	All() []Benchmark
	Version() string
}

// StatusNotifier receives insight lifecycle transitions. Implementations
// must not block.
type StatusNotifier interface {
	NotifyStatus(iso string, category Category, status InsightStatus, at time.Time)
}
