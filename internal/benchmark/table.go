// Package benchmark loads the versioned global benchmark table and
// positions country values against it. The table is configuration, not
// derived data: it ships as YAML and is injected at startup.
package benchmark

import (
	"github.com/oshpulse/atlas/internal/domain"
)

// Table is one benchmark document as it appears on disk.
type Table struct {
	Version    string             `yaml:"version" json:"version"`
	Benchmarks []domain.Benchmark `yaml:"benchmarks" json:"benchmarks"`
}

// Provider indexes a validated table for indicator lookup. It
// implements domain.BenchmarkProvider and is immutable after creation,
// so it is safe for concurrent use.
type Provider struct {
	version     string
	benchmarks  []domain.Benchmark
	byIndicator map[domain.Indicator]domain.Benchmark
}

// NewProvider builds the lookup index over a validated table.
func NewProvider(tbl *Table) *Provider {
	p := &Provider{
		version:     tbl.Version,
		benchmarks:  make([]domain.Benchmark, len(tbl.Benchmarks)),
		byIndicator: make(map[domain.Indicator]domain.Benchmark, len(tbl.Benchmarks)),
	}
	copy(p.benchmarks, tbl.Benchmarks)
	for _, b := range tbl.Benchmarks {
		p.byIndicator[b.Indicator] = b
	}
	return p
}

// Get returns the benchmark for an indicator, if the table carries one.
func (p *Provider) Get(ind domain.Indicator) (*domain.Benchmark, bool) {
	b, ok := p.byIndicator[ind]
	if !ok {
		return nil, false
	}
	return &b, true
}

// All returns the benchmarks in table order.
func (p *Provider) All() []domain.Benchmark {
	out := make([]domain.Benchmark, len(p.benchmarks))
	copy(out, p.benchmarks)
	return out
}

// Version returns the table version string.
func (p *Provider) Version() string {
	return p.version
}
