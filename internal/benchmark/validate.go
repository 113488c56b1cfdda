package benchmark

import (
	"fmt"

	"github.com/oshpulse/atlas/internal/domain"
)

// ValidationError is a fatal table error; loading aborts.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning is a non-fatal table issue, reported but tolerated.
type Warning struct {
	Code    string
	Message string
}

// Validate checks the constraints a table must satisfy to load.
func Validate(tbl *Table) error {
	if tbl.Version == "" {
		return ValidationError{"version", "required"}
	}
	if len(tbl.Benchmarks) == 0 {
		return ValidationError{"benchmarks", "required"}
	}

	known := make(map[domain.Indicator]bool, len(domain.AllIndicators()))
	for _, ind := range domain.AllIndicators() {
		known[ind] = true
	}

	seen := make(map[domain.Indicator]bool, len(tbl.Benchmarks))
	for i, b := range tbl.Benchmarks {
		field := fmt.Sprintf("benchmarks[%d]", i)

		if b.Indicator == "" {
			return ValidationError{field + ".indicator", "required"}
		}
		if !known[b.Indicator] {
			return ValidationError{field + ".indicator", fmt.Sprintf("unknown indicator '%s'", b.Indicator)}
		}
		if seen[b.Indicator] {
			return ValidationError{field + ".indicator", fmt.Sprintf("duplicate indicator '%s'", b.Indicator)}
		}
		seen[b.Indicator] = true

		if b.Max < b.Min {
			return ValidationError{field, fmt.Sprintf("max=%.4f must be >= min=%.4f", b.Max, b.Min)}
		}

		// Summary statistics must sit inside the range and in order.
		// A degenerate range carries no usable statistics, so skip it.
		if b.Degenerate() {
			continue
		}
		if b.Average < b.Min || b.Average > b.Max {
			return ValidationError{field + ".average", fmt.Sprintf("%.4f outside [%.4f, %.4f]", b.Average, b.Min, b.Max)}
		}
		if b.P25 < b.Min || b.P75 > b.Max {
			return ValidationError{field, "p25/p75 outside [min, max]"}
		}
		if b.P25 > b.Median || b.Median > b.P75 {
			return ValidationError{field, "must satisfy p25 <= median <= p75"}
		}
	}

	return nil
}

// Warn checks recommended table properties (non-fatal).
func Warn(tbl *Table) []Warning {
	var warnings []Warning

	covered := make(map[domain.Indicator]bool, len(tbl.Benchmarks))
	for _, b := range tbl.Benchmarks {
		covered[b.Indicator] = true

		if b.Degenerate() {
			warnings = append(warnings, Warning{
				Code:    "DEGENERATE_RANGE",
				Message: fmt.Sprintf("%s: max <= min, positions will be unavailable", b.Indicator),
			})
		}
		if b.Unit == "" {
			warnings = append(warnings, Warning{
				Code:    "MISSING_UNIT",
				Message: fmt.Sprintf("%s: no unit, charts will render bare numbers", b.Indicator),
			})
		}
	}

	// Tracked indicators without benchmarks resolve to no data.
	for _, ind := range domain.AllIndicators() {
		if !covered[ind] {
			warnings = append(warnings, Warning{
				Code:    "UNCOVERED_INDICATOR",
				Message: fmt.Sprintf("%s: no benchmark entry", ind),
			})
		}
	}

	return warnings
}
