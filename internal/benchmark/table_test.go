package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oshpulse/atlas/internal/domain"
)

func validTable() *Table {
	return &Table{
		Version: "test",
		Benchmarks: []domain.Benchmark{
			{
				Indicator: domain.IndicatorGDPPerCapita,
				Min:       500, Max: 120000,
				Average: 14000, Median: 7000, P25: 2000, P75: 20000,
				Unit: "USD", HigherBetter: true,
			},
			{
				Indicator: domain.IndicatorUnemploymentRate,
				Min:       0.1, Max: 35,
				Average: 7.2, Median: 5.9, P25: 3.8, P75: 9.4,
				Unit: "%", HigherBetter: false,
			},
		},
	}
}

func TestLoad(t *testing.T) {
	path := "../../configs/benchmarks.yaml"

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skip("benchmark table not found")
	}

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if tbl.Version != "2026.1" {
		t.Errorf("expected version=2026.1, got %s", tbl.Version)
	}
	if len(tbl.Benchmarks) != len(domain.AllIndicators()) {
		t.Errorf("expected %d benchmarks, got %d", len(domain.AllIndicators()), len(tbl.Benchmarks))
	}

	// Every tracked indicator must have an entry in the shipped table.
	p := NewProvider(tbl)
	for _, ind := range domain.AllIndicators() {
		if _, ok := p.Get(ind); !ok {
			t.Errorf("missing benchmark for %s", ind)
		}
	}

	hash, err := Hash(tbl)
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if len(hash) != 64 {
		t.Errorf("expected 64 char hash, got %d", len(hash))
	}

	hash2, _ := Hash(tbl)
	if hash != hash2 {
		t.Error("hash not deterministic")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	content := `version: "test"
benchmarks:
  - indicator: gdp_per_capita
    min: 0
    max: 100
    average: 50
    median: 50
    p25: 25
    p75: 75
    unit: USD
    higher_is_better: true
reference_year: 2026
`
	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp table: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown field, got nil")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Table)
		valid  bool
	}{
		{"valid table", func(tbl *Table) {}, true},
		{"missing version", func(tbl *Table) { tbl.Version = "" }, false},
		{"no benchmarks", func(tbl *Table) { tbl.Benchmarks = nil }, false},
		{"missing indicator", func(tbl *Table) { tbl.Benchmarks[0].Indicator = "" }, false},
		{"unknown indicator", func(tbl *Table) { tbl.Benchmarks[0].Indicator = "gini_index" }, false},
		{"duplicate indicator", func(tbl *Table) { tbl.Benchmarks[1].Indicator = tbl.Benchmarks[0].Indicator }, false},
		{"inverted range", func(tbl *Table) { tbl.Benchmarks[0].Min = 200; tbl.Benchmarks[0].Max = 100 }, false},
		{"average outside range", func(tbl *Table) { tbl.Benchmarks[0].Average = 999999 }, false},
		{"p25 above median", func(tbl *Table) { tbl.Benchmarks[0].P25 = 8000 }, false},
		{"degenerate range allowed", func(tbl *Table) {
			tbl.Benchmarks[0].Min = 50
			tbl.Benchmarks[0].Max = 50
		}, true},
	}

	for _, tc := range tests {
		tbl := validTable()
		tc.mutate(tbl)
		err := Validate(tbl)
		if tc.valid && err != nil {
			t.Errorf("%s: expected valid, got error: %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestWarn(t *testing.T) {
	tbl := &Table{
		Version: "test",
		Benchmarks: []domain.Benchmark{
			{Indicator: domain.IndicatorGDPPerCapita, Min: 50, Max: 50},
		},
	}

	codes := make(map[string]bool)
	for _, w := range Warn(tbl) {
		codes[w.Code] = true
	}

	for _, want := range []string{"DEGENERATE_RANGE", "MISSING_UNIT", "UNCOVERED_INDICATOR"} {
		if !codes[want] {
			t.Errorf("expected warning %s, got %v", want, codes)
		}
	}
}

func TestProvider(t *testing.T) {
	p := NewProvider(validTable())

	if p.Version() != "test" {
		t.Errorf("expected version=test, got %s", p.Version())
	}

	b, ok := p.Get(domain.IndicatorUnemploymentRate)
	if !ok {
		t.Fatal("expected benchmark for unemployment_rate")
	}
	if b.Unit != "%" {
		t.Errorf("expected unit=%%, got %s", b.Unit)
	}
	if b.HigherBetter {
		t.Error("unemployment_rate should be lower-is-better")
	}

	if _, ok := p.Get(domain.IndicatorHealthExpenditure); ok {
		t.Error("expected no benchmark for health_expenditure")
	}

	all := p.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 benchmarks, got %d", len(all))
	}
	if all[0].Indicator != domain.IndicatorGDPPerCapita {
		t.Errorf("expected table order preserved, got %s first", all[0].Indicator)
	}
}
