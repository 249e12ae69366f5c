package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/store"
)

// PostgresJournalStore implements the store.JournalStore interface
// using a PostgreSQL database as the storage backend.
type PostgresJournalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJournalStore creates a new PostgreSQL implementation of the JournalStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresJournalStore(db store.DBTX, logger *slog.Logger) *PostgresJournalStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresJournalStore{
		db:     db,
		logger: logger.With(slog.String("component", "journal_store")),
	}
}

// Ensure PostgresJournalStore implements store.JournalStore interface
var _ store.JournalStore = (*PostgresJournalStore)(nil)

func (s *PostgresJournalStore) log(ctx context.Context) *slog.Logger {
	if l, ok := logger.FromContext(ctx); ok {
		return l.With(slog.String("component", "journal_store"))
	}
	return s.logger
}

// WithTx implements store.JournalStore.WithTx
func (s *PostgresJournalStore) WithTx(tx *sql.Tx) store.JournalStore {
	return &PostgresJournalStore{db: tx, logger: s.logger}
}

// GetOrCreate implements store.JournalStore.GetOrCreate
// Returns store.ErrPlantNotFound if the plant does not exist.
func (s *PostgresJournalStore) GetOrCreate(ctx context.Context, plantID uuid.UUID) (*domain.Journal, error) {
	fresh, err := domain.NewJournal(plantID, time.Now())
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO journals (id, plant_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (plant_id) DO NOTHING
	`, fresh.ID, plantID, fresh.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			s.log(ctx).Warn("journal requested for unknown plant",
				slog.String("plant_id", plantID.String()))
			return nil, store.ErrPlantNotFound
		}
		s.log(ctx).Error("failed to create journal",
			slog.String("error", err.Error()),
			slog.String("plant_id", plantID.String()))
		return nil, store.NewStoreError("journal", "create", "insert failed", MapError(err))
	}

	return s.GetByPlant(ctx, plantID)
}

// GetByPlant implements store.JournalStore.GetByPlant
// Returns store.ErrJournalNotFound if the journal does not exist.
func (s *PostgresJournalStore) GetByPlant(ctx context.Context, plantID uuid.UUID) (*domain.Journal, error) {
	var j domain.Journal
	err := s.db.QueryRowContext(ctx,
		`SELECT id, plant_id, created_at FROM journals WHERE plant_id = $1`, plantID).
		Scan(&j.ID, &j.PlantID, &j.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJournalNotFound
		}
		return nil, store.NewStoreError("journal", "get", "select failed", MapError(err))
	}
	j.CreatedAt = j.CreatedAt.UTC()

	entries, err := s.ListEntries(ctx, plantID)
	if err != nil {
		return nil, err
	}
	j.Entries = entries
	return &j, nil
}

// AddEntry implements store.JournalStore.AddEntry
// Returns store.ErrJournalNotFound if the journal does not exist.
func (s *PostgresJournalStore) AddEntry(ctx context.Context, entry *domain.JournalEntry) error {
	log := s.log(ctx)

	if err := entry.Validate(); err != nil {
		log.Warn("journal entry validation failed",
			slog.String("error", err.Error()),
			slog.String("plant_id", entry.PlantID.String()))
		return err
	}

	var photo []byte
	if entry.HasPhoto() {
		photo = entry.Photo
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (id, journal_id, plant_id, created_at, note, photo)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.JournalID, entry.PlantID, entry.CreatedAt.UTC(), entry.Note, photo)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrJournalNotFound
		}
		log.Error("failed to add journal entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return store.NewStoreError("journal_entry", "create", "insert failed", MapError(err))
	}

	log.Info("journal entry added",
		slog.String("entry_id", entry.ID.String()),
		slog.String("plant_id", entry.PlantID.String()),
		slog.Bool("has_photo", entry.HasPhoto()))
	return nil
}

// ListEntries implements store.JournalStore.ListEntries
func (s *PostgresJournalStore) ListEntries(ctx context.Context, plantID uuid.UUID) ([]domain.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.journal_id, e.plant_id, e.created_at, e.note, e.photo
		FROM journal_entries e
		JOIN journals j ON j.id = e.journal_id
		WHERE j.plant_id = $1
		ORDER BY e.created_at DESC, e.seq DESC
	`, plantID)
	if err != nil {
		return nil, store.NewStoreError("journal_entry", "list", "select failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var e domain.JournalEntry
		var photo []byte
		if err := rows.Scan(&e.ID, &e.JournalID, &e.PlantID, &e.CreatedAt, &e.Note, &photo); err != nil {
			return nil, store.NewStoreError("journal_entry", "list", "scan failed", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		if len(photo) > 0 {
			e.Photo = photo
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("journal_entry", "list", "row iteration failed", err)
	}
	return entries, nil
}

// DeleteByPlant implements store.JournalStore.DeleteByPlant
func (s *PostgresJournalStore) DeleteByPlant(ctx context.Context, plantID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM journal_entries
		WHERE journal_id IN (SELECT id FROM journals WHERE plant_id = $1)
	`, plantID); err != nil {
		return store.NewStoreError("journal_entry", "delete", "delete failed", MapError(err))
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM journals WHERE plant_id = $1`, plantID); err != nil {
		return store.NewStoreError("journal", "delete", "delete failed", MapError(err))
	}
	return nil
}
