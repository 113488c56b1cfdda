package handlers

import (
	"net/http"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/stats"
	"github.com/oshpulse/atlas/pkg/logger"
)

// StatsHandler serves population statistics.
type StatsHandler struct {
	countries  domain.CountryStore
	aggregator *stats.Aggregator
	logger     *logger.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(countries domain.CountryStore, agg *stats.Aggregator, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		countries:  countries,
		aggregator: agg,
		logger:     log,
	}
}

// GetGlobal returns per-pillar averages over the whole population
// GET /api/v1/stats/global
func (h *StatsHandler) GetGlobal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	countries, err := h.countries.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list countries for stats")
		respondError(w, http.StatusInternalServerError, "Failed to compute global statistics")
		return
	}

	respondJSON(w, http.StatusOK, h.aggregator.Compute(countries))
}
