package api

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/catalog"
	"github.com/phrazzld/sprout/internal/domain/lifecycle"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/tips"
)

// CreatePlantRequest defines the payload for creating a plant.
type CreatePlantRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Species string `json:"species" validate:"required,max=100"`
	Icon    string `json:"icon"    validate:"required,max=64"`
}

// AppendEntryRequest defines the payload for adding a journal entry. Photo is
// base64 in JSON and stored as opaque bytes.
type AppendEntryRequest struct {
	Note  string `json:"note"  validate:"max=4000"`
	Photo string `json:"photo" validate:"omitempty,base64"`
}

// RegionRequest defines the payload for recording the garden region.
type RegionRequest struct {
	Shape string  `json:"shape" validate:"required,oneof=rect ellipse"`
	MinX  float64 `json:"min_x"`
	MinY  float64 `json:"min_y"`
	MaxX  float64 `json:"max_x" validate:"gtfield=MinX"`
	MaxY  float64 `json:"max_y" validate:"gtfield=MinY"`
}

// PlantResponse is the API view of a plant.
type PlantResponse struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Species      string           `json:"species"`
	Icon         string           `json:"icon"`
	Stage        domain.Stage     `json:"stage"`
	CreatedAt    time.Time        `json:"created_at"`
	GerminatedAt *time.Time       `json:"germinated_at,omitempty"`
	Position     *placement.Point `json:"position,omitempty"`
}

// PlantStatusResponse pairs a plant with its derived lifecycle status.
type PlantStatusResponse struct {
	Plant  PlantResponse    `json:"plant"`
	Status lifecycle.Status `json:"status"`
}

// EntryResponse is the API view of a journal entry.
type EntryResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Note      string    `json:"note,omitempty"`
	Photo     string    `json:"photo,omitempty"`
}

// JournalResponse is the API view of a journal, entries newest first.
type JournalResponse struct {
	ID        uuid.UUID       `json:"id"`
	PlantID   uuid.UUID       `json:"plant_id"`
	CreatedAt time.Time       `json:"created_at"`
	Entries   []EntryResponse `json:"entries"`
}

// RegionResponse reports the recorded region and how many plants moved.
type RegionResponse struct {
	Region placement.Region `json:"region"`
	Moved  int              `json:"moved"`
}

// SpeciesResponse lists the catalog.
type SpeciesResponse struct {
	Species []catalog.Species `json:"species"`
}

// TipsResponse is the tip display for a species.
type TipsResponse = tips.Display

func plantToResponse(p *domain.Plant) PlantResponse {
	resp := PlantResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Icon:      p.Icon,
		Stage:     p.Stage(),
		CreatedAt: p.CreatedAt,
	}
	if p.Germinated {
		at := p.GerminatedAt
		resp.GerminatedAt = &at
	}
	if p.Positioned {
		pos := p.Position
		resp.Position = &pos
	}
	return resp
}

func plantsToResponse(plants []*domain.Plant) []PlantResponse {
	out := make([]PlantResponse, 0, len(plants))
	for _, p := range plants {
		out = append(out, plantToResponse(p))
	}
	return out
}

func entryToResponse(e domain.JournalEntry) EntryResponse {
	resp := EntryResponse{ID: e.ID, CreatedAt: e.CreatedAt, Note: e.Note}
	if e.HasPhoto() {
		resp.Photo = base64.StdEncoding.EncodeToString(e.Photo)
	}
	return resp
}

func journalToResponse(j *domain.Journal) JournalResponse {
	entries := make([]EntryResponse, 0, len(j.Entries))
	for _, e := range j.Entries {
		entries = append(entries, entryToResponse(e))
	}
	return JournalResponse{ID: j.ID, PlantID: j.PlantID, CreatedAt: j.CreatedAt, Entries: entries}
}
