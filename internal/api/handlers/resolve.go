package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/resolver"
	"github.com/oshpulse/atlas/pkg/logger"
)

// ResolveHandler serves resolved category view models.
type ResolveHandler struct {
	countries domain.CountryStore
	resolver  *resolver.Resolver
	logger    *logger.Logger
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(countries domain.CountryStore, res *resolver.Resolver, log *logger.Logger) *ResolveHandler {
	return &ResolveHandler{
		countries: countries,
		resolver:  res,
		logger:    log,
	}
}

// Resolve returns the display-ready view model for one category tile
// GET /api/v1/countries/{iso}/resolve/{category}
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	iso, ok := isoParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ISO code (expected 3 letters)")
		return
	}

	category, err := domain.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown category")
		return
	}

	country, err := h.countries.Get(ctx, iso)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get country")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve country")
		return
	}
	if country == nil {
		respondError(w, http.StatusNotFound, "Country not found")
		return
	}

	view := h.resolver.Resolve(ctx, country, category)
	respondJSON(w, http.StatusOK, view)
}
