package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/api/shared"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/service"
)

// GardenService is the subset of service.GardenService the handlers use.
type GardenService interface {
	CreatePlant(ctx context.Context, in service.CreatePlantInput) (*domain.Plant, error)
	GetPlant(ctx context.Context, id uuid.UUID) (*domain.Plant, error)
	ListPlants(ctx context.Context) ([]*domain.Plant, error)
	DeletePlant(ctx context.Context, id uuid.UUID) error
	ConfirmGermination(ctx context.Context, id uuid.UUID) (*domain.Plant, error)
	PlantStatus(ctx context.Context, id uuid.UUID) (*service.PlantStatus, error)
	SetRegion(ctx context.Context, region placement.Region) (int, error)
	Relayout(ctx context.Context) ([]*domain.Plant, error)
}

// PlantHandler handles plant and garden layout requests.
type PlantHandler struct {
	garden GardenService
	logger *slog.Logger
}

// NewPlantHandler creates a new PlantHandler.
func NewPlantHandler(garden GardenService, logger *slog.Logger) *PlantHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlantHandler{
		garden: garden,
		logger: logger.With(slog.String("component", "plant_handler")),
	}
}

// CreatePlant handles POST /api/plants.
func (h *PlantHandler) CreatePlant(w http.ResponseWriter, r *http.Request) {
	var req CreatePlantRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		handleBadRequest(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		handleBadRequest(w, r, err)
		return
	}

	plant, err := h.garden.CreatePlant(r.Context(), service.CreatePlantInput{
		Name:    req.Name,
		Species: req.Species,
		Icon:    req.Icon,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, plantToResponse(plant))
}

// ListPlants handles GET /api/plants. Plants come back in creation order.
func (h *PlantHandler) ListPlants(w http.ResponseWriter, r *http.Request) {
	plants, err := h.garden.ListPlants(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list plants")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plantsToResponse(plants))
}

// GetPlant handles GET /api/plants/{id}.
func (h *PlantHandler) GetPlant(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	plant, err := h.garden.GetPlant(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plantToResponse(plant))
}

// DeletePlant handles DELETE /api/plants/{id}. The journal goes with it.
func (h *PlantHandler) DeletePlant(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.garden.DeletePlant(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ConfirmGermination handles POST /api/plants/{id}/germination. Confirming an
// already germinated plant is not an error and returns it unchanged.
func (h *PlantHandler) ConfirmGermination(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	plant, err := h.garden.ConfirmGermination(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plantToResponse(plant))
}

// PlantStatus handles GET /api/plants/{id}/status.
func (h *PlantHandler) PlantStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	status, err := h.garden.PlantStatus(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PlantStatusResponse{
		Plant:  plantToResponse(status.Plant),
		Status: status.Status,
	})
}

// SetRegion handles PUT /api/garden/region.
func (h *PlantHandler) SetRegion(w http.ResponseWriter, r *http.Request) {
	var req RegionRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		handleBadRequest(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		handleBadRequest(w, r, err)
		return
	}

	region, err := placement.NewRegion(placement.Shape(req.Shape), req.MinX, req.MinY, req.MaxX, req.MaxY)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	moved, err := h.garden.SetRegion(r.Context(), region)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("garden region updated",
		slog.String("shape", req.Shape),
		slog.Int("moved", moved))
	shared.RespondWithJSON(w, r, http.StatusOK, RegionResponse{Region: region, Moved: moved})
}

// Relayout handles POST /api/garden/relayout.
func (h *PlantHandler) Relayout(w http.ResponseWriter, r *http.Request) {
	plants, err := h.garden.Relayout(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, plantsToResponse(plants))
}
