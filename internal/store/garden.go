package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/sprout/internal/domain/placement"
)

// GardenStore persists garden-wide settings such as the last-known placement region.
type GardenStore interface {
	// GetRegion returns the last-known region.
	// Returns ErrRegionNotSet if no region has been recorded.
	GetRegion(ctx context.Context) (placement.Region, error)

	// SetRegion records the region, replacing any previous one.
	SetRegion(ctx context.Context, region placement.Region) error

	// WithTx returns a new GardenStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) GardenStore
}
