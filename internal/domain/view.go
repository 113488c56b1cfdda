package domain

// DataState describes how a resolved category view should render.
type DataState string

const (
	// StateOK means real content is present.
	StateOK DataState = "ok"
	// StateNoData means the inputs for a chart or gauge are missing.
	StateNoData DataState = "no_data"
	// StatePlaceholder means narrative content is unavailable and
	// clearly-marked filler is shown instead. Pending generation and
	// generation failure both land here.
	StatePlaceholder DataState = "placeholder"
)

// ComparisonBasis labels where a percentile-style number came from, so
// a position against the configured benchmark range is never confused
// with a rank within the assessed population.
type ComparisonBasis string

const (
	BasisPopulation ComparisonBasis = "population"
	BasisReference  ComparisonBasis = "reference"
)

// CategoryView is the unified display model for one (country,
// category). At most one of Economic, Pillar, Narrative is set,
// matching Kind; a no-data view carries none of them.
type CategoryView struct {
	ISOCode   string         `json:"iso_code"`
	Category  Category       `json:"category"`
	Title     string         `json:"title"`
	Kind      CategoryKind   `json:"kind"`
	State     DataState      `json:"state"`
	Economic  *EconomicView  `json:"economic,omitempty"`
	Pillar    *PillarView    `json:"pillar,omitempty"`
	Narrative *NarrativeView `json:"narrative,omitempty"`
}

// EconomicView compares a country value against the global benchmark.
// Position is the clamped location of the value inside the benchmark
// range on a 0-100 scale, inverted for lower-is-better indicators.
type EconomicView struct {
	Indicator Indicator       `json:"indicator"`
	Value     float64         `json:"value"`
	Unit      string          `json:"unit"`
	Benchmark Benchmark       `json:"benchmark"`
	Position  float64         `json:"position"`
	Basis     ComparisonBasis `json:"comparison_basis"`
}

// PillarView renders one pillar gauge with its population context.
// Percentile is nil when the score is absent or the population holds
// no assessed values.
type PillarView struct {
	Field         PillarField     `json:"field"`
	Score         *float64        `json:"score"`
	GlobalAverage *float64        `json:"global_average"`
	Percentile    *int            `json:"percentile,omitempty"`
	Basis         ComparisonBasis `json:"comparison_basis"`
}

// NarrativeView renders backend narrative content, or clearly-marked
// placeholder content when the real thing is not available. Callers
// cannot tell a pending record from a failed one here; both surface
// as Placeholder.
type NarrativeView struct {
	Summary     string    `json:"summary"`
	Implication string    `json:"implication"`
	Images      []string  `json:"images,omitempty"`
	KeyStats    []KeyStat `json:"key_stats,omitempty"`
	Placeholder bool      `json:"placeholder"`
}
