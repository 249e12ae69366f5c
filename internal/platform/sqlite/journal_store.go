package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/store"
)

// JournalStore implements store.JournalStore on SQLite.
type JournalStore struct {
	db     store.DBTX
	logger *slog.Logger
	now    func() time.Time
}

var _ store.JournalStore = (*JournalStore)(nil)

// NewJournalStore creates a JournalStore over a connection or transaction.
// If logger is nil, the default logger is used.
func NewJournalStore(db store.DBTX, logger *slog.Logger) *JournalStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalStore{
		db:     db,
		logger: logger.With(slog.String("component", "journal_store")),
		now:    time.Now,
	}
}

func (s *JournalStore) log(ctx context.Context) *slog.Logger {
	if l, ok := logger.FromContext(ctx); ok {
		return l.With(slog.String("component", "journal_store"))
	}
	return s.logger
}

// WithTx implements store.JournalStore.WithTx.
func (s *JournalStore) WithTx(tx *sql.Tx) store.JournalStore {
	return &JournalStore{db: tx, logger: s.logger, now: s.now}
}

// GetOrCreate implements store.JournalStore.GetOrCreate.
func (s *JournalStore) GetOrCreate(ctx context.Context, plantID uuid.UUID) (*domain.Journal, error) {
	fresh, err := domain.NewJournal(plantID, s.now())
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO journals (id, plant_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (plant_id) DO NOTHING`,
		fresh.ID.String(), plantID.String(), toUnix(fresh.CreatedAt))
	if err != nil {
		s.log(ctx).Error("failed to create journal",
			slog.String("error", err.Error()),
			slog.String("plant_id", plantID.String()))
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			// The only foreign key is the plant.
			return nil, store.ErrPlantNotFound
		}
		return nil, store.NewStoreError("journal", "create", "insert failed", mapped)
	}

	return s.GetByPlant(ctx, plantID)
}

// GetByPlant implements store.JournalStore.GetByPlant.
func (s *JournalStore) GetByPlant(ctx context.Context, plantID uuid.UUID) (*domain.Journal, error) {
	var (
		j       domain.Journal
		id      string
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM journals WHERE plant_id = ?`, plantID.String()).
		Scan(&id, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJournalNotFound
		}
		return nil, store.NewStoreError("journal", "get", "select failed", MapError(err))
	}

	if j.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid journal id %q: %w", id, err)
	}
	j.PlantID = plantID
	j.CreatedAt = fromUnix(created)

	entries, err := s.ListEntries(ctx, plantID)
	if err != nil {
		return nil, err
	}
	j.Entries = entries
	return &j, nil
}

// AddEntry implements store.JournalStore.AddEntry.
func (s *JournalStore) AddEntry(ctx context.Context, entry *domain.JournalEntry) error {
	log := s.log(ctx)

	if err := entry.Validate(); err != nil {
		log.Warn("journal entry validation failed",
			slog.String("error", err.Error()),
			slog.String("plant_id", entry.PlantID.String()))
		return err
	}

	var photo any
	if entry.HasPhoto() {
		photo = entry.Photo
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal_entries (id, journal_id, plant_id, created_at, note, photo)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID.String(),
		entry.JournalID.String(),
		entry.PlantID.String(),
		toUnix(entry.CreatedAt),
		entry.Note,
		photo,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) && !IsUniqueViolation(err) {
			var exists int
			lookupErr := s.db.QueryRowContext(ctx,
				`SELECT 1 FROM journals WHERE id = ?`, entry.JournalID.String()).Scan(&exists)
			if errors.Is(lookupErr, sql.ErrNoRows) {
				return store.ErrJournalNotFound
			}
		}
		log.Error("failed to add journal entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("journal_id", entry.JournalID.String()))
		return store.NewStoreError("journal_entry", "create", "insert failed", mapped)
	}

	log.Info("journal entry added",
		slog.String("entry_id", entry.ID.String()),
		slog.String("plant_id", entry.PlantID.String()),
		slog.Bool("has_photo", entry.HasPhoto()))
	return nil
}

// ListEntries implements store.JournalStore.ListEntries.
func (s *JournalStore) ListEntries(ctx context.Context, plantID uuid.UUID) ([]domain.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.journal_id, e.created_at, e.note, e.photo
		FROM journal_entries e
		JOIN journals j ON j.id = e.journal_id
		WHERE j.plant_id = ?
		ORDER BY e.created_at DESC, e.seq DESC
	`, plantID.String())
	if err != nil {
		return nil, store.NewStoreError("journal_entry", "list", "select failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		var (
			e             domain.JournalEntry
			id, journalID string
			created       int64
			photo         []byte
		)
		if err := rows.Scan(&id, &journalID, &created, &e.Note, &photo); err != nil {
			return nil, store.NewStoreError("journal_entry", "list", "scan failed", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid entry id %q: %w", id, err)
		}
		if e.JournalID, err = uuid.Parse(journalID); err != nil {
			return nil, fmt.Errorf("invalid journal id %q: %w", journalID, err)
		}
		e.PlantID = plantID
		e.CreatedAt = fromUnix(created)
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

// DeleteByPlant implements store.JournalStore.DeleteByPlant.
func (s *JournalStore) DeleteByPlant(ctx context.Context, plantID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM journal_entries
		WHERE journal_id IN (SELECT id FROM journals WHERE plant_id = ?)
	`, plantID.String()); err != nil {
		return store.NewStoreError("journal_entry", "delete", "delete failed", MapError(err))
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM journals WHERE plant_id = ?`, plantID.String()); err != nil {
		return store.NewStoreError("journal", "delete", "delete failed", MapError(err))
	}
	s.log(ctx).Debug("journal deleted", slog.String("plant_id", plantID.String()))
	return nil
}
