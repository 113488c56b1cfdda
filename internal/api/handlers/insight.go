package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oshpulse/atlas/internal/domain"
	"github.com/oshpulse/atlas/internal/insight"
	"github.com/oshpulse/atlas/pkg/logger"
)

// InsightHandler serves insight records and the admin generation
// endpoints.
// ⭐ SSOT: the HTTP status mapping for generation errors lives only here.
type InsightHandler struct {
	service *insight.Service
	store   domain.InsightStore
	logger  *logger.Logger
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(service *insight.Service, store domain.InsightStore, log *logger.Logger) *InsightHandler {
	return &InsightHandler{
		service: service,
		store:   store,
		logger:  log,
	}
}

// Get returns one insight record in any lifecycle status
// GET /api/v1/insights/{iso}/{category}
func (h *InsightHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	record, err := h.store.Get(ctx, iso, category)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get insight")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve insight")
		return
	}
	if record == nil {
		respondError(w, http.StatusNotFound, "Insight not yet generated")
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// Initialize generates insights for every category the country does not
// already hold
// POST /api/v1/insights/{iso}/initialize
func (h *InsightHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	iso, ok := isoParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ISO code (expected 3 letters)")
		return
	}

	result, err := h.service.Initialize(ctx, iso)
	if err != nil {
		if errors.Is(err, insight.ErrCountryNotFound) {
			respondError(w, http.StatusNotFound, "Country not found")
			return
		}
		h.logger.WithError(err).Error("Failed to initialize insights")
		respondError(w, http.StatusInternalServerError, "Failed to initialize insights")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// RegenerateAll force-regenerates every category for one country
// POST /api/v1/insights/{iso}/regenerate-all
func (h *InsightHandler) RegenerateAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	iso, ok := isoParam(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid ISO code (expected 3 letters)")
		return
	}

	result, err := h.service.RegenerateAll(ctx, iso)
	if err != nil {
		if errors.Is(err, insight.ErrCountryNotFound) {
			respondError(w, http.StatusNotFound, "Country not found")
			return
		}
		h.logger.WithError(err).Error("Failed to regenerate insights")
		respondError(w, http.StatusInternalServerError, "Failed to regenerate insights")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Regenerate force-regenerates one category and returns the fresh record
// POST /api/v1/insights/{iso}/{category}/regenerate
func (h *InsightHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Regenerate(ctx, iso, category); err != nil {
		switch {
		case errors.Is(err, insight.ErrCountryNotFound):
			respondError(w, http.StatusNotFound, "Country not found")
		case errors.Is(err, insight.ErrAlreadyGenerating):
			respondError(w, http.StatusConflict, "Insight generation already in progress")
		default:
			h.logger.WithError(err).Error("Failed to regenerate insight")
			respondError(w, http.StatusInternalServerError, "Failed to regenerate insight")
		}
		return
	}

	record, err := h.store.Get(ctx, iso, category)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load regenerated insight")
		respondError(w, http.StatusInternalServerError, "Failed to load regenerated insight")
		return
	}

	respondJSON(w, http.StatusOK, record)
}
