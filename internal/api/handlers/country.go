package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/pkg/logger"
)

// CountryHandler serves country records and economic snapshots.
// ⭐ SSOT: country read endpoints live only on this struct.
type CountryHandler struct {
	countries domain.CountryStore
	snapshots domain.IntelligenceStore
	logger    *logger.Logger
}

// NewCountryHandler creates a new country handler
func NewCountryHandler(countries domain.CountryStore, snapshots domain.IntelligenceStore, log *logger.Logger) *CountryHandler {
	return &CountryHandler{
		countries: countries,
		snapshots: snapshots,
		logger:    log,
	}
}

// GetGeoJSONMetadata returns all country records for the map layer
// GET /api/v1/countries/geojson-metadata
func (h *CountryHandler) GetGeoJSONMetadata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	countries, err := h.countries.List(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list countries")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve countries")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(countries),
		"countries": countries,
	})
}

// GetIntelligence returns the economic snapshot for one country
// GET /api/v1/countries/{iso}/intelligence
func (h *CountryHandler) GetIntelligence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	iso, ok := isoParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ISO code (expected 3 letters)")
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

	snapshot, err := h.snapshots.Get(ctx, iso)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get economic snapshot")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve economic snapshot")
		return
	}
	if snapshot == nil {
		respondError(w, http.StatusNotFound, "No economic snapshot for this country")
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// isoParam extracts and normalizes the {iso} path variable.
func isoParam(r *http.Request) (string, bool) {
	iso := strings.ToUpper(mux.Vars(r)["iso"])
	if !domain.ValidISOCode(iso) {
		return "", false
	}
	return iso, true
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
