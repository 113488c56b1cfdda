// Package resolver assembles the per-category display models served to
// the dashboard tiles.
package resolver

import (
	"context"

	"github.com/oshpulse/atlas/internal/benchmark"
	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/stats"
	"github.com/oshpulse/atlas/pkg/logger"
)

// Resolver turns one (country, category) pair into its display model.
// ⭐ SSOT: tile content decisions (data vs no-data vs placeholder) are
// made only here. Resolution never returns an error; every failure
// degrades to a no-data or placeholder view.
type Resolver struct {
	countries  domain.CountryStore
	snapshots  domain.IntelligenceStore
	insights   domain.InsightStore
	benchmarks domain.BenchmarkProvider
	aggregator *stats.Aggregator
	degraded   domain.DegradedContentProvider
	logger     *logger.Logger
}

// NewResolver creates a resolver over the injected stores.
func NewResolver(
	countries domain.CountryStore,
	snapshots domain.IntelligenceStore,
	insights domain.InsightStore,
	benchmarks domain.BenchmarkProvider,
	aggregator *stats.Aggregator,
	degraded domain.DegradedContentProvider,
	log *logger.Logger,
) *Resolver {
	return &Resolver{
		countries:  countries,
		snapshots:  snapshots,
		insights:   insights,
		benchmarks: benchmarks,
		aggregator: aggregator,
		degraded:   degraded,
		logger:     log.WithField("module", "resolver"),
	}
}

// Resolve builds the view for one category of an already-loaded
// country. The caller is responsible for country existence; this method
// only decides how the category renders.
func (r *Resolver) Resolve(ctx context.Context, country *domain.Country, category domain.Category) *domain.CategoryView {
	view := &domain.CategoryView{
		ISOCode:  country.ISOCode,
		Category: category,
		Title:    category.Title(),
		Kind:     category.Kind(),
		State:    domain.StateNoData,
	}

	switch category.Kind() {
	case domain.KindEconomic:
		r.resolveEconomic(ctx, country, category, view)
	case domain.KindPillar:
		r.resolvePillar(ctx, country, category, view)
	case domain.KindNarrative:
		r.resolveNarrative(ctx, country, category, view)
	}

	return view
}

// resolveEconomic requires both a snapshot value and a benchmark; a
// missing side renders as no-data, never as a zero-valued chart.
func (r *Resolver) resolveEconomic(ctx context.Context, country *domain.Country, category domain.Category, view *domain.CategoryView) {
	ind, ok := category.Indicator()
	if !ok {
		return
	}

	snapshot, err := r.snapshots.Get(ctx, country.ISOCode)
	if err != nil {
		r.logger.WithError(err).WithField("iso_code", country.ISOCode).Warn("Snapshot read failed during resolve")
		return
	}
	if snapshot == nil {
		return
	}
	value := snapshot.Value(ind)
	if value == nil {
		return
	}

	bench, ok := r.benchmarks.Get(ind)
	if !ok {
		return
	}
	position, ok := benchmark.Position(*value, bench)
	if !ok {
		return
	}

	view.State = domain.StateOK
	view.Economic = &domain.EconomicView{
		Indicator: ind,
		Value:     *value,
		Unit:      bench.Unit,
		Benchmark: *bench,
		Position:  position,
		Basis:     domain.BasisReference,
	}
}

// resolvePillar reads the score directly off the country record. The
// population context is best-effort: a failed list read drops the
// average and percentile but keeps the gauge.
func (r *Resolver) resolvePillar(ctx context.Context, country *domain.Country, category domain.Category, view *domain.CategoryView) {
	field, ok := category.Pillar()
	if !ok {
		return
	}
	score := country.Score(field)
	if score == nil {
		return
	}

	pillar := &domain.PillarView{
		Field: field,
		Score: score,
		Basis: domain.BasisPopulation,
	}
	if population, err := r.countries.List(ctx); err != nil {
		r.logger.WithError(err).Warn("Country list read failed during resolve")
	} else {
		global := r.aggregator.Compute(population)
		pillar.GlobalAverage = global.Average(field)
		pillar.Percentile = r.aggregator.Percentile(population, field, score)
	}

	view.State = domain.StateOK
	view.Pillar = pillar
}

// resolveNarrative serves stored content verbatim when it exists.
// Missing records, empty narratives, and store errors all surface as
// the same placeholder; the renderer cannot tell them apart.
func (r *Resolver) resolveNarrative(ctx context.Context, country *domain.Country, category domain.Category, view *domain.CategoryView) {
	ins, err := r.insights.Get(ctx, country.ISOCode, category)
	if err != nil {
		r.logger.WithError(err).WithFields(map[string]interface{}{
			"iso_code": country.ISOCode,
			"category": string(category),
		}).Warn("Insight read failed during resolve")
	}
	if err == nil && ins != nil && ins.HasNarrative() {
		view.State = domain.StateOK
		view.Narrative = &domain.NarrativeView{
			Summary:     ins.Summary,
			Implication: ins.Implication,
			Images:      ins.Images,
			KeyStats:    ins.KeyStats,
			Placeholder: false,
		}
		return
	}

	view.State = domain.StatePlaceholder
	view.Narrative = r.degraded.Placeholder(country.Name, category)
}
