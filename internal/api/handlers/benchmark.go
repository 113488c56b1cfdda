package handlers

import (
	"net/http"

	"github.com/oshpulse/atlas/internal/domain"
)

// BenchmarkHandler serves the loaded benchmark table.
type BenchmarkHandler struct {
	benchmarks domain.BenchmarkProvider
}

// NewBenchmarkHandler creates a new benchmark handler
func NewBenchmarkHandler(benchmarks domain.BenchmarkProvider) *BenchmarkHandler {
	return &BenchmarkHandler{benchmarks: benchmarks}
}

// GetTable returns the benchmark table with its version
// GET /api/v1/benchmarks
func (h *BenchmarkHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"version":    h.benchmarks.Version(),
		"benchmarks": h.benchmarks.All(),
	})
}
