package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/store"
)

// PostgresGardenStore implements the store.GardenStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGardenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGardenStore creates a new PostgreSQL implementation of the GardenStore interface.
func NewPostgresGardenStore(db store.DBTX, logger *slog.Logger) *PostgresGardenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGardenStore{db: db, logger: logger.With(slog.String("component", "garden_store"))}
}

// Ensure PostgresGardenStore implements store.GardenStore interface
var _ store.GardenStore = (*PostgresGardenStore)(nil)

// WithTx implements store.GardenStore.WithTx
func (s *PostgresGardenStore) WithTx(tx *sql.Tx) store.GardenStore {
	return &PostgresGardenStore{db: tx, logger: s.logger}
}

// GetRegion implements store.GardenStore.GetRegion
func (s *PostgresGardenStore) GetRegion(ctx context.Context) (placement.Region, error) {
	var r placement.Region
	var shape string
	err := s.db.QueryRowContext(ctx,
		`SELECT shape, min_x, min_y, max_x, max_y FROM garden_settings WHERE id = 1`).
		Scan(&shape, &r.Min.X, &r.Min.Y, &r.Max.X, &r.Max.Y)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return placement.Region{}, store.ErrRegionNotSet
		}
		return placement.Region{}, store.NewStoreError("garden", "get", "select failed", MapError(err))
	}
	r.Shape = placement.Shape(shape)
	return r, nil
}

// SetRegion implements store.GardenStore.SetRegion
func (s *PostgresGardenStore) SetRegion(ctx context.Context, region placement.Region) error {
	if err := region.Validate(); err != nil {
		return store.NewStoreError("garden", "update", "invalid region", errors.Join(store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO garden_settings (id, shape, min_x, min_y, max_x, max_y, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			shape = EXCLUDED.shape,
			min_x = EXCLUDED.min_x,
			min_y = EXCLUDED.min_y,
			max_x = EXCLUDED.max_x,
			max_y = EXCLUDED.max_y,
			updated_at = EXCLUDED.updated_at
	`, string(region.Shape), region.Min.X, region.Min.Y, region.Max.X, region.Max.Y, time.Now().UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to store garden region", slog.String("error", err.Error()))
		return store.NewStoreError("garden", "update", "upsert failed", MapError(err))
	}
	return nil
}
