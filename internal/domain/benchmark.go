package domain

// Benchmark is the global reference range for one economic indicator.
// Benchmarks are versioned configuration loaded at startup; they are
// not derived from the live country list.
type Benchmark struct {
	Indicator    Indicator `json:"indicator" yaml:"indicator"`
	Min          float64   `json:"min" yaml:"min"`
	Max          float64   `json:"max" yaml:"max"`
	Average      float64   `json:"average" yaml:"average"`
	Median       float64   `json:"median" yaml:"median"`
	P25          float64   `json:"p25" yaml:"p25"`
	P75          float64   `json:"p75" yaml:"p75"`
	Unit         string    `json:"unit" yaml:"unit"`
	HigherBetter bool      `json:"higher_is_better" yaml:"higher_is_better"`
}

// Degenerate reports whether the range cannot position a value.
func (b *Benchmark) Degenerate() bool {
	return b.Max <= b.Min
}
