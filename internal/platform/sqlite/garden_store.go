package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/store"
)

// GardenStore implements store.GardenStore on SQLite. The region lives in a
// single-row settings table.
type GardenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.GardenStore = (*GardenStore)(nil)

// NewGardenStore creates a GardenStore over a connection or transaction.
func NewGardenStore(db store.DBTX, logger *slog.Logger) *GardenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GardenStore{db: db, logger: logger.With(slog.String("component", "garden_store"))}
}

// WithTx implements store.GardenStore.WithTx.
func (s *GardenStore) WithTx(tx *sql.Tx) store.GardenStore {
	return &GardenStore{db: tx, logger: s.logger}
}

// GetRegion implements store.GardenStore.GetRegion.
func (s *GardenStore) GetRegion(ctx context.Context) (placement.Region, error) {
	var (
		r     placement.Region
		shape string
	)
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

// SetRegion implements store.GardenStore.SetRegion.
func (s *GardenStore) SetRegion(ctx context.Context, region placement.Region) error {
	if err := region.Validate(); err != nil {
		return store.NewStoreError("garden", "update", "invalid region", errors.Join(store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO garden_settings (id, shape, min_x, min_y, max_x, max_y, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			shape = excluded.shape,
			min_x = excluded.min_x,
			min_y = excluded.min_y,
			max_x = excluded.max_x,
			max_y = excluded.max_y,
			updated_at = excluded.updated_at
	`, string(region.Shape), region.Min.X, region.Min.Y, region.Max.X, region.Max.Y, toUnix(time.Now()))
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to store garden region", slog.String("error", err.Error()))
		return store.NewStoreError("garden", "update", "upsert failed", MapError(err))
	}

	s.logger.DebugContext(ctx, "garden region stored",
		slog.String("shape", string(region.Shape)),
		slog.Float64("width", region.Width()),
		slog.Float64("height", region.Height()))
	return nil
}
