package benchmark

import (
	"github.com/oshpulse/atlas/internal/domain"
)

// Position maps a raw indicator value onto the benchmark range as a
// 0-100 position. Values outside the range clamp to the endpoints, and
// the scale is inverted when lower values are better, so 100 always
// means the favorable end. The second return is false when the range
// is degenerate and no position exists.
func Position(value float64, b *domain.Benchmark) (float64, bool) {
	if b == nil || b.Degenerate() {
		return 0, false
	}

	v := value
	if v < b.Min {
		v = b.Min
	}
	if v > b.Max {
		v = b.Max
	}

	pos := (v - b.Min) / (b.Max - b.Min) * 100
	if !b.HigherBetter {
		pos = 100 - pos
	}
	return pos, true
}
