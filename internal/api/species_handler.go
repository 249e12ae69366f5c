package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/sprout/internal/api/shared"
	"github.com/phrazzld/sprout/internal/domain/catalog"
	"github.com/phrazzld/sprout/internal/tips"
)

// DeviceModelHeader carries the client device identifier used to decide
// whether generated tips are offered.
const DeviceModelHeader = "X-Device-Model"

// SpeciesCatalog is the read side of the species catalog.
type SpeciesCatalog interface {
	All() []catalog.Species
}

// TipService resolves the tips shown for a species.
type TipService interface {
	ForDisplay(ctx context.Context, species, deviceModel string) tips.Display
}

// SpeciesHandler serves the species catalog and per-species tips.
type SpeciesHandler struct {
	catalog SpeciesCatalog
	tips    TipService
}

// NewSpeciesHandler creates a new SpeciesHandler.
func NewSpeciesHandler(catalog SpeciesCatalog, tips TipService) *SpeciesHandler {
	return &SpeciesHandler{catalog: catalog, tips: tips}
}

// ListSpecies handles GET /api/species.
func (h *SpeciesHandler) ListSpecies(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, SpeciesResponse{Species: h.catalog.All()})
}

// GetTips handles GET /api/species/{name}/tips. It never waits on the remote
// generator: a species without cached tips gets the static fallback, and an
// unknown species gets an empty list with source "unavailable".
func (h *SpeciesHandler) GetTips(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	display := h.tips.ForDisplay(r.Context(), name, r.Header.Get(DeviceModelHeader))
	shared.RespondWithJSON(w, r, http.StatusOK, TipsResponse(display))
}
