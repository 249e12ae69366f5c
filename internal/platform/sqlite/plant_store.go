package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/store"
)

const plantColumns = `id, name, species, icon, created_at, germinated_at, germinated, pos_x, pos_y, positioned`

// PlantStore implements store.PlantStore on SQLite.
type PlantStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.PlantStore = (*PlantStore)(nil)

// NewPlantStore creates a PlantStore over a connection or transaction.
// If logger is nil, the default logger is used.
func NewPlantStore(db store.DBTX, logger *slog.Logger) *PlantStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PlantStore{
		db:     db,
		logger: logger.With(slog.String("component", "plant_store")),
	}
}

func (s *PlantStore) log(ctx context.Context) *slog.Logger {
	if l, ok := logger.FromContext(ctx); ok {
		return l.With(slog.String("component", "plant_store"))
	}
	return s.logger
}

// WithTx implements store.PlantStore.WithTx.
func (s *PlantStore) WithTx(tx *sql.Tx) store.PlantStore {
	return &PlantStore{db: tx, logger: s.logger}
}

// Create implements store.PlantStore.Create.
func (s *PlantStore) Create(ctx context.Context, plant *domain.Plant) error {
	log := s.log(ctx)

	if err := plant.Validate(); err != nil {
		log.Warn("plant validation failed during create",
			slog.String("error", err.Error()),
			slog.String("plant_id", plant.ID.String()))
		return err
	}

	query := `INSERT INTO plants (` + plantColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		plant.ID.String(),
		plant.Name,
		plant.Species,
		plant.Icon,
		toUnix(plant.CreatedAt),
		toUnix(plant.GerminatedAt),
		boolInt(plant.Germinated),
		plant.Position.X,
		plant.Position.Y,
		boolInt(plant.Positioned),
	)
	if err != nil {
		log.Error("failed to create plant",
			slog.String("error", err.Error()),
			slog.String("plant_id", plant.ID.String()))
		return store.NewStoreError("plant", "create", "insert failed", MapError(err))
	}

	log.Info("plant created successfully",
		slog.String("plant_id", plant.ID.String()),
		slog.String("species", plant.Species))
	return nil
}

// GetByID implements store.PlantStore.GetByID.
func (s *PlantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants WHERE id = ?`
	plant, err := scanPlant(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log(ctx).Debug("plant not found", slog.String("plant_id", id.String()))
			return nil, store.ErrPlantNotFound
		}
		s.log(ctx).Error("failed to get plant by ID",
			slog.String("error", err.Error()),
			slog.String("plant_id", id.String()))
		return nil, store.NewStoreError("plant", "get", "select failed", MapError(err))
	}
	return plant, nil
}

// List implements store.PlantStore.List.
func (s *PlantStore) List(ctx context.Context) ([]*domain.Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants ORDER BY created_at ASC, seq ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.log(ctx).Error("failed to list plants", slog.String("error", err.Error()))
		return nil, store.NewStoreError("plant", "list", "select failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	plants := []*domain.Plant{}
	for rows.Next() {
		plant, err := scanPlant(rows)
		if err != nil {
			return nil, store.NewStoreError("plant", "list", "scan failed", err)
		}
		plants = append(plants, plant)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("plant", "list", "row iteration failed", err)
	}
	return plants, nil
}

// Update implements store.PlantStore.Update.
func (s *PlantStore) Update(ctx context.Context, plant *domain.Plant) error {
	log := s.log(ctx)

	if err := plant.Validate(); err != nil {
		log.Warn("plant validation failed during update",
			slog.String("error", err.Error()),
			slog.String("plant_id", plant.ID.String()))
		return err
	}

	query := `
		UPDATE plants
		SET name = ?, species = ?, icon = ?, germinated_at = ?, germinated = ?,
		    pos_x = ?, pos_y = ?, positioned = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		plant.Name,
		plant.Species,
		plant.Icon,
		toUnix(plant.GerminatedAt),
		boolInt(plant.Germinated),
		plant.Position.X,
		plant.Position.Y,
		boolInt(plant.Positioned),
		plant.ID.String(),
	)
	if err != nil {
		log.Error("failed to update plant",
			slog.String("error", err.Error()),
			slog.String("plant_id", plant.ID.String()))
		return store.NewStoreError("plant", "update", "update failed", MapError(err))
	}
	if err := checkRowsAffected(result, store.ErrPlantNotFound); err != nil {
		return err
	}

	log.Debug("plant updated", slog.String("plant_id", plant.ID.String()))
	return nil
}

// UpdatePosition implements store.PlantStore.UpdatePosition.
func (s *PlantStore) UpdatePosition(ctx context.Context, id uuid.UUID, pos placement.Point) error {
	query := `UPDATE plants SET pos_x = ?, pos_y = ?, positioned = 1 WHERE id = ?`
	result, err := s.db.ExecContext(ctx, query, pos.X, pos.Y, id.String())
	if err != nil {
		s.log(ctx).Error("failed to update plant position",
			slog.String("error", err.Error()),
			slog.String("plant_id", id.String()))
		return store.NewStoreError("plant", "update", "position update failed", MapError(err))
	}
	return checkRowsAffected(result, store.ErrPlantNotFound)
}

// Delete implements store.PlantStore.Delete.
func (s *PlantStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM plants WHERE id = ?`, id.String())
	if err != nil {
		s.log(ctx).Error("failed to delete plant",
			slog.String("error", err.Error()),
			slog.String("plant_id", id.String()))
		return store.NewStoreError("plant", "delete", "delete failed", MapError(err))
	}
	if err := checkRowsAffected(result, store.ErrPlantNotFound); err != nil {
		return err
	}
	s.log(ctx).Info("plant deleted", slog.String("plant_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (*domain.Plant, error) {
	var (
		p                      domain.Plant
		id                     string
		created, germinatedAt  int64
		germinated, positioned int
	)
	if err := row.Scan(
		&id,
		&p.Name,
		&p.Species,
		&p.Icon,
		&created,
		&germinatedAt,
		&germinated,
		&p.Position.X,
		&p.Position.Y,
		&positioned,
	); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid plant id %q: %w", id, err)
	}
	p.ID = parsed
	p.CreatedAt = fromUnix(created)
	p.GerminatedAt = fromUnix(germinatedAt)
	p.Germinated = germinated != 0
	p.Positioned = positioned != 0
	return &p, nil
}
