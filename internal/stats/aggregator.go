package stats

import (
	"math"
	"sort"
	"time"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/pkg/logger"
)

// Aggregator computes population statistics over the country list.
// SSOT: population averages and percentile ranks are computed only here.
type Aggregator struct {
	logger *logger.Logger
}

// NewAggregator creates a new aggregator
func NewAggregator(logger *logger.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Compute returns per-field averages across the population. Fields with
// no assessed values stay nil; an empty or all-null population yields a
// stats object with every average nil and no error. Results are
// recomputed on every call, never cached.
func (a *Aggregator) Compute(countries []domain.Country) *domain.GlobalStats {
	stats := &domain.GlobalStats{
		Population: len(countries),
		ComputedAt: time.Now(),
	}

	for _, field := range domain.AllPillars() {
		values := collectValues(countries, field)
		if len(values) == 0 {
			continue
		}
		avg := mean(values)
		stats.SetAverage(field, &avg)
	}

	a.logger.WithFields(map[string]interface{}{
		"population": stats.Population,
	}).Debug("Global statistics computed")

	return stats
}

// Percentile returns the share of assessed values at or below score,
// rounded to a whole percent. Ties land in the higher bucket, so the
// maximum value always ranks 100. Returns nil when score is nil or the
// field has no assessed values.
func (a *Aggregator) Percentile(countries []domain.Country, field domain.PillarField, score *float64) *int {
	if score == nil {
		return nil
	}

	values := collectValues(countries, field)
	total := len(values)
	if total == 0 {
		return nil
	}

	sort.Float64s(values)

	// First index strictly greater than the score: everything before it
	// counts as at-or-below.
	idx := sort.Search(total, func(i int) bool {
		return values[i] > *score
	})

	pct := int(math.Round(float64(idx) / float64(total) * 100))
	return &pct
}

// collectValues gathers the non-null values for one field.
func collectValues(countries []domain.Country, field domain.PillarField) []float64 {
	values := make([]float64, 0, len(countries))
	for i := range countries {
		if v := countries[i].Score(field); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
