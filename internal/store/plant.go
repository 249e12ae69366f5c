package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/placement"
)

// PlantStore defines the interface for plant data persistence.
type PlantStore interface {
	// Create saves a new plant to the store.
	// Returns validation errors from the domain Plant if data is invalid.
	Create(ctx context.Context, plant *domain.Plant) error

	// GetByID retrieves a plant by its unique ID.
	// Returns ErrPlantNotFound if the plant does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Plant, error)

	// List returns every plant in creation order, oldest first.
	// Returns an empty slice if there are none.
	List(ctx context.Context) ([]*domain.Plant, error)

	// Update saves changes to an existing plant's mutable fields.
	// Returns ErrPlantNotFound if the plant does not exist.
	Update(ctx context.Context, plant *domain.Plant) error

	// UpdatePosition records a computed layout position.
	// Returns ErrPlantNotFound if the plant does not exist.
	UpdatePosition(ctx context.Context, id uuid.UUID, pos placement.Point) error

	// Delete removes a plant. It does not touch the plant's journal; callers
	// that need both removed together use a transaction.
	// Returns ErrPlantNotFound if the plant does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new PlantStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) PlantStore
}
