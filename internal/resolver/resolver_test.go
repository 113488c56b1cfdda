package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshpulse/atlas/internal/benchmark"
	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/insight"
	"github.com/oshpulse/atlas/internal/stats"
	"github.com/oshpulse/atlas/pkg/config"
	"github.com/oshpulse/atlas/pkg/logger"
)

func testLogger() *logger.Logger {
	cfg := &config.Config{Env: "test", LogLevel: "error", LogFormat: "json"}
	return logger.New(cfg)
}

func fptr(v float64) *float64 {
	return &v
}

type fakeCountryStore struct {
	population []domain.Country
	err        error
}

func (f *fakeCountryStore) List(ctx context.Context) ([]domain.Country, error) {
	return f.population, f.err
}

func (f *fakeCountryStore) Get(ctx context.Context, iso string) (*domain.Country, error) {
	for i := range f.population {
		if f.population[i].ISOCode == iso {
			return &f.population[i], nil
		}
	}
	return nil, nil
}

type fakeSnapshotStore struct {
	snapshots map[string]*domain.CountryIntelligence
	err       error
}

func (f *fakeSnapshotStore) Get(ctx context.Context, iso string) (*domain.CountryIntelligence, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshots[iso], nil
}

type fakeInsightStore struct {
	insights map[string]*domain.Insight
	err      error
}

func (f *fakeInsightStore) Get(ctx context.Context, iso string, category domain.Category) (*domain.Insight, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.insights[iso+":"+string(category)], nil
}

func (f *fakeInsightStore) ListByCountry(ctx context.Context, iso string) ([]domain.Insight, error) {
	return nil, nil
}

func (f *fakeInsightStore) ListStale(ctx context.Context, olderThan time.Time, limit int) ([]domain.Insight, error) {
	return nil, nil
}

func (f *fakeInsightStore) Claim(ctx context.Context, iso string, category domain.Category) (bool, error) {
	return false, nil
}

func (f *fakeInsightStore) Complete(ctx context.Context, ins *domain.Insight) error {
	return nil
}

func (f *fakeInsightStore) Fail(ctx context.Context, iso string, category domain.Category) error {
	return nil
}

type resolverFixture struct {
	countries *fakeCountryStore
	snapshots *fakeSnapshotStore
	insights  *fakeInsightStore
	resolver  *Resolver
}

func newFixture() *resolverFixture {
	countries := &fakeCountryStore{
		population: []domain.Country{
			{ISOCode: "FRA", Name: "France", Governance: fptr(80)},
			{ISOCode: "BRA", Name: "Brazil", Governance: fptr(40)},
			{ISOCode: "TCD", Name: "Chad"},
		},
	}
	snapshots := &fakeSnapshotStore{snapshots: map[string]*domain.CountryIntelligence{}}
	insights := &fakeInsightStore{insights: map[string]*domain.Insight{}}

	provider := benchmark.NewProvider(&benchmark.Table{
		Version: "test",
		Benchmarks: []domain.Benchmark{
			{
				Indicator: domain.IndicatorUnemploymentRate,
				Min:       0, Max: 100, Average: 7, Median: 6, P25: 4, P75: 9,
				Unit:         "%",
				HigherBetter: false,
			},
			{
				Indicator: domain.IndicatorGDPPerCapita,
				Min:       1000, Max: 1000, Average: 1000, Median: 1000, P25: 1000, P75: 1000,
				Unit:         "USD",
				HigherBetter: true,
			},
		},
	})

	log := testLogger()
	r := NewResolver(
		countries,
		snapshots,
		insights,
		provider,
		stats.NewAggregator(log),
		insight.NewPlaceholderProvider(),
		log,
	)

	return &resolverFixture{
		countries: countries,
		snapshots: snapshots,
		insights:  insights,
		resolver:  r,
	}
}

func (f *resolverFixture) country(iso string) *domain.Country {
	c, _ := f.countries.Get(context.Background(), iso)
	return c
}

func TestResolve_EconomicWithBenchmark(t *testing.T) {
	f := newFixture()
	f.snapshots.snapshots["FRA"] = &domain.CountryIntelligence{
		ISOCode:          "FRA",
		UnemploymentRate: fptr(20),
	}

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryUnemploymentRate)

	assert.Equal(t, domain.StateOK, view.State)
	assert.Equal(t, domain.KindEconomic, view.Kind)
	require.NotNil(t, view.Economic)
	assert.Equal(t, 20.0, view.Economic.Value)
	assert.Equal(t, "%", view.Economic.Unit)
	assert.InDelta(t, 80.0, view.Economic.Position, 1e-9, "lower-is-better inverts the position")
	assert.Equal(t, domain.BasisReference, view.Economic.Basis)
	assert.Nil(t, view.Pillar)
	assert.Nil(t, view.Narrative)
}

func TestResolve_EconomicMissingSnapshot(t *testing.T) {
	f := newFixture()

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryUnemploymentRate)

	assert.Equal(t, domain.StateNoData, view.State)
	assert.Nil(t, view.Economic, "no-data views carry no chart payload")
}

func TestResolve_EconomicMissingValue(t *testing.T) {
	f := newFixture()
	f.snapshots.snapshots["FRA"] = &domain.CountryIntelligence{ISOCode: "FRA"}

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryUnemploymentRate)

	assert.Equal(t, domain.StateNoData, view.State)
}

func TestResolve_EconomicMissingBenchmark(t *testing.T) {
	f := newFixture()
	f.snapshots.snapshots["FRA"] = &domain.CountryIntelligence{
		ISOCode:           "FRA",
		HealthExpenditure: fptr(6.5),
	}

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryHealthExpenditure)

	assert.Equal(t, domain.StateNoData, view.State)
}

func TestResolve_EconomicDegenerateBenchmark(t *testing.T) {
	f := newFixture()
	f.snapshots.snapshots["FRA"] = &domain.CountryIntelligence{
		ISOCode:      "FRA",
		GDPPerCapita: fptr(42000),
	}

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryGDPPerCapita)

	assert.Equal(t, domain.StateNoData, view.State)
}

func TestResolve_EconomicSnapshotError(t *testing.T) {
	f := newFixture()
	f.snapshots.err = errors.New("connection refused")

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryUnemploymentRate)

	assert.Equal(t, domain.StateNoData, view.State, "store errors degrade to no-data")
}

func TestResolve_Pillar(t *testing.T) {
	f := newFixture()

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryGovernance)

	assert.Equal(t, domain.StateOK, view.State)
	assert.Equal(t, domain.KindPillar, view.Kind)
	require.NotNil(t, view.Pillar)
	require.NotNil(t, view.Pillar.Score)
	assert.Equal(t, 80.0, *view.Pillar.Score)
	require.NotNil(t, view.Pillar.GlobalAverage)
	assert.InDelta(t, 60.0, *view.Pillar.GlobalAverage, 1e-9)
	require.NotNil(t, view.Pillar.Percentile)
	assert.Equal(t, 100, *view.Pillar.Percentile, "the maximum score ranks 100")
	assert.Equal(t, domain.BasisPopulation, view.Pillar.Basis)
}

func TestResolve_PillarLowerScore(t *testing.T) {
	f := newFixture()

	view := f.resolver.Resolve(context.Background(), f.country("BRA"), domain.CategoryGovernance)

	require.NotNil(t, view.Pillar)
	require.NotNil(t, view.Pillar.Percentile)
	assert.Equal(t, 50, *view.Pillar.Percentile)
}

func TestResolve_PillarUnassessed(t *testing.T) {
	f := newFixture()

	view := f.resolver.Resolve(context.Background(), f.country("TCD"), domain.CategoryGovernance)

	assert.Equal(t, domain.StateNoData, view.State)
	assert.Nil(t, view.Pillar, "an unassessed pillar renders no gauge")
}

func TestResolve_PillarListErrorKeepsGauge(t *testing.T) {
	f := newFixture()
	country := f.country("FRA")
	f.countries.err = errors.New("connection refused")

	view := f.resolver.Resolve(context.Background(), country, domain.CategoryGovernance)

	assert.Equal(t, domain.StateOK, view.State)
	require.NotNil(t, view.Pillar)
	assert.Nil(t, view.Pillar.GlobalAverage)
	assert.Nil(t, view.Pillar.Percentile)
}

func TestResolve_NarrativeCompleted(t *testing.T) {
	f := newFixture()
	f.insights.insights["FRA:safety-culture"] = &domain.Insight{
		ISOCode:     "FRA",
		Category:    domain.CategorySafetyCulture,
		Summary:     "Safety culture in France is mature.",
		Implication: "Employers invest beyond compliance.",
		Images:      []string{"https://img.example/a.png"},
		KeyStats:    []domain.KeyStat{{Label: "Fatal rate", Value: "2.1"}},
		Status:      domain.StatusCompleted,
	}

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategorySafetyCulture)

	assert.Equal(t, domain.StateOK, view.State)
	require.NotNil(t, view.Narrative)
	assert.False(t, view.Narrative.Placeholder)
	assert.Equal(t, "Safety culture in France is mature.", view.Narrative.Summary)
	assert.Len(t, view.Narrative.Images, 1)
	assert.Len(t, view.Narrative.KeyStats, 1)
}

func TestResolve_NarrativeMissing(t *testing.T) {
	f := newFixture()

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryOutlook)

	assert.Equal(t, domain.StatePlaceholder, view.State)
	require.NotNil(t, view.Narrative)
	assert.True(t, view.Narrative.Placeholder)
	assert.Contains(t, view.Narrative.Summary, "France")
}

func TestResolve_NarrativeEmptySummary(t *testing.T) {
	f := newFixture()
	f.insights.insights["FRA:outlook"] = &domain.Insight{
		ISOCode:  "FRA",
		Category: domain.CategoryOutlook,
		Summary:  "   ",
		Status:   domain.StatusCompleted,
	}

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryOutlook)

	assert.Equal(t, domain.StatePlaceholder, view.State)
	assert.True(t, view.Narrative.Placeholder)
}

func TestResolve_NarrativeStoreError(t *testing.T) {
	f := newFixture()
	f.insights.err = errors.New("connection refused")

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryOutlook)

	assert.Equal(t, domain.StatePlaceholder, view.State, "store errors degrade to placeholder")
	assert.True(t, view.Narrative.Placeholder)
}

func TestResolve_NarrativeSurvivesFailedRefresh(t *testing.T) {
	f := newFixture()
	f.insights.insights["FRA:outlook"] = &domain.Insight{
		ISOCode:  "FRA",
		Category: domain.CategoryOutlook,
		Summary:  "Content from the last successful run.",
		Status:   domain.StatusError,
	}

	view := f.resolver.Resolve(context.Background(), f.country("FRA"), domain.CategoryOutlook)

	assert.Equal(t, domain.StateOK, view.State)
	assert.False(t, view.Narrative.Placeholder)
	assert.Equal(t, "Content from the last successful run.", view.Narrative.Summary)
}
