package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain/placement"
)

// Stage represents where a plant is in its germination lifecycle.
type Stage string

// Lifecycle stages. Planted is initial, Germinated is terminal.
const (
	StagePlanted    Stage = "planted"
	StageGerminated Stage = "germinated"
)

// Common validation errors for Plant
var (
	ErrEmptyPlantID       = errors.New("plant ID cannot be empty")
	ErrEmptyPlantName     = errors.New("plant name cannot be empty")
	ErrEmptyPlantSpecies  = errors.New("plant species cannot be empty")
	ErrEmptyPlantIcon     = errors.New("plant icon cannot be empty")
	ErrGerminatedTooEarly = errors.New("germination time cannot precede creation time")
)

// Plant is a single user-owned plant tracked through germination.
type Plant struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Species      string          `json:"species"`
	Icon         string          `json:"icon"`
	CreatedAt    time.Time       `json:"created_at"`
	GerminatedAt time.Time       `json:"germinated_at"`
	Germinated   bool            `json:"germinated"`
	Position     placement.Point `json:"position"`
	Positioned   bool            `json:"positioned"`
}

// NewPlant creates a planted, unpositioned plant. The germination time
// defaults to the creation time until germination is confirmed.
func NewPlant(name, species, icon string, now time.Time) (*Plant, error) {
	now = now.UTC()
	plant := &Plant{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Species:      strings.TrimSpace(species),
		Icon:         strings.TrimSpace(icon),
		CreatedAt:    now,
		GerminatedAt: now,
	}

	if err := plant.Validate(); err != nil {
		return nil, err
	}

	return plant, nil
}

// Validate checks if the Plant has valid data.
func (p *Plant) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyPlantID)
	}

	if strings.TrimSpace(p.Name) == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyPlantName)
	}

	if strings.TrimSpace(p.Species) == "" {
		return NewValidationError("species", "must be selected", ErrEmptyPlantSpecies)
	}

	if strings.TrimSpace(p.Icon) == "" {
		return NewValidationError("icon", "must be selected", ErrEmptyPlantIcon)
	}

	if p.Germinated && p.GerminatedAt.Before(p.CreatedAt) {
		return NewValidationError("germinated_at", "cannot precede created_at", ErrGerminatedTooEarly)
	}

	return nil
}

// Stage returns the current lifecycle stage.
func (p *Plant) Stage() Stage {
	if p.Germinated {
		return StageGerminated
	}
	return StagePlanted
}

// PlaceAt records a computed layout position.
func (p *Plant) PlaceAt(pos placement.Point) {
	p.Position = pos
	p.Positioned = true
}

// Positions collects the positions of every placed plant, skipping any in skip.
func Positions(plants []*Plant, skip uuid.UUID) []placement.Point {
	points := make([]placement.Point, 0, len(plants))
	for _, p := range plants {
		if !p.Positioned || p.ID == skip {
			continue
		}
		points = append(points, p.Position)
	}
	return points
}
