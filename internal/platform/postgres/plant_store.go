package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/store"
)

const plantColumns = `id, name, species, icon, created_at, germinated_at, germinated, pos_x, pos_y, positioned`

// PostgresPlantStore implements the store.PlantStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPlantStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPlantStore creates a new PostgreSQL implementation of the PlantStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPlantStore(db store.DBTX, logger *slog.Logger) *PostgresPlantStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPlantStore{
		db:     db,
		logger: logger.With(slog.String("component", "plant_store")),
	}
}

// Ensure PostgresPlantStore implements store.PlantStore interface
var _ store.PlantStore = (*PostgresPlantStore)(nil)

func (s *PostgresPlantStore) log(ctx context.Context) *slog.Logger {
	if l, ok := logger.FromContext(ctx); ok {
		return l.With(slog.String("component", "plant_store"))
	}
	return s.logger
}

// WithTx implements store.PlantStore.WithTx
func (s *PostgresPlantStore) WithTx(tx *sql.Tx) store.PlantStore {
	return &PostgresPlantStore{db: tx, logger: s.logger}
}

// Create implements store.PlantStore.Create
// Returns validation errors from the domain Plant if data is invalid.
func (s *PostgresPlantStore) Create(ctx context.Context, plant *domain.Plant) error {
	log := s.log(ctx)

	if err := plant.Validate(); err != nil {
		log.Warn("plant validation failed during create",
			slog.String("error", err.Error()),
			slog.String("plant_id", plant.ID.String()))
		return err
	}

	query := `
		INSERT INTO plants (` + plantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		plant.ID,
		plant.Name,
		plant.Species,
		plant.Icon,
		plant.CreatedAt.UTC(),
		plant.GerminatedAt.UTC(),
		plant.Germinated,
		plant.Position.X,
		plant.Position.Y,
		plant.Positioned,
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

// GetByID implements store.PlantStore.GetByID
// Returns store.ErrPlantNotFound if the plant does not exist.
func (s *PostgresPlantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plant, error) {
	query := `SELECT ` + plantColumns + ` FROM plants WHERE id = $1`
	plant, err := scanPlant(s.db.QueryRowContext(ctx, query, id))
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

// List implements store.PlantStore.List
func (s *PostgresPlantStore) List(ctx context.Context) ([]*domain.Plant, error) {
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

// Update implements store.PlantStore.Update
// Returns store.ErrPlantNotFound if the plant does not exist.
func (s *PostgresPlantStore) Update(ctx context.Context, plant *domain.Plant) error {
	log := s.log(ctx)

	if err := plant.Validate(); err != nil {
		log.Warn("plant validation failed during update",
			slog.String("error", err.Error()),
			slog.String("plant_id", plant.ID.String()))
		return err
	}

	query := `
		UPDATE plants
		SET name = $1, species = $2, icon = $3, germinated_at = $4, germinated = $5,
		    pos_x = $6, pos_y = $7, positioned = $8
		WHERE id = $9
	`
	result, err := s.db.ExecContext(ctx, query,
		plant.Name,
		plant.Species,
		plant.Icon,
		plant.GerminatedAt.UTC(),
		plant.Germinated,
		plant.Position.X,
		plant.Position.Y,
		plant.Positioned,
		plant.ID,
	)
	if err != nil {
		log.Error("failed to update plant",
			slog.String("error", err.Error()),
			slog.String("plant_id", plant.ID.String()))
		return store.NewStoreError("plant", "update", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrPlantNotFound)
}

// UpdatePosition implements store.PlantStore.UpdatePosition
func (s *PostgresPlantStore) UpdatePosition(ctx context.Context, id uuid.UUID, pos placement.Point) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE plants SET pos_x = $1, pos_y = $2, positioned = TRUE WHERE id = $3`,
		pos.X, pos.Y, id)
	if err != nil {
		s.log(ctx).Error("failed to update plant position",
			slog.String("error", err.Error()),
			slog.String("plant_id", id.String()))
		return store.NewStoreError("plant", "update", "position update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrPlantNotFound)
}

// Delete implements store.PlantStore.Delete
func (s *PostgresPlantStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		s.log(ctx).Error("failed to delete plant",
			slog.String("error", err.Error()),
			slog.String("plant_id", id.String()))
		return store.NewStoreError("plant", "delete", "delete failed", MapError(err))
	}
	if err := CheckRowsAffected(result, store.ErrPlantNotFound); err != nil {
		return err
	}
	s.log(ctx).Info("plant deleted", slog.String("plant_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlant(row rowScanner) (*domain.Plant, error) {
	var p domain.Plant
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Species,
		&p.Icon,
		&p.CreatedAt,
		&p.GerminatedAt,
		&p.Germinated,
		&p.Position.X,
		&p.Position.Y,
		&p.Positioned,
	); err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.GerminatedAt = p.GerminatedAt.UTC()
	return &p, nil
}
