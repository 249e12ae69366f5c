package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/store"
)

// JournalService manages the per-plant journal.
type JournalService struct {
	db      store.TxBeginner
	plants  store.PlantStore
	journal store.JournalStore
	now     func() time.Time
	logger  *slog.Logger
}

// NewJournalService creates a JournalService.
// It returns an error if any of the required dependencies are nil.
func NewJournalService(
	db store.TxBeginner,
	plants store.PlantStore,
	journal store.JournalStore,
	logger *slog.Logger,
) (*JournalService, error) {
	switch {
	case db == nil:
		return nil, fmt.Errorf("%w: db", ErrMissingDependency)
	case plants == nil:
		return nil, fmt.Errorf("%w: plant store", ErrMissingDependency)
	case journal == nil:
		return nil, fmt.Errorf("%w: journal store", ErrMissingDependency)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JournalService{
		db:      db,
		plants:  plants,
		journal: journal,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "journal_service")),
	}, nil
}

// SetClock replaces the time source.
func (s *JournalService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// GetOrCreateJournal returns the plant's journal, creating it on first access.
// Entries are ordered newest first.
func (s *JournalService) GetOrCreateJournal(ctx context.Context, plantID uuid.UUID) (*domain.Journal, error) {
	if _, err := s.plants.GetByID(ctx, plantID); err != nil {
		return nil, wrap("get_journal", "failed to retrieve plant", err)
	}

	journal, err := s.journal.GetOrCreate(ctx, plantID)
	if err != nil {
		return nil, wrap("get_journal", "failed to load journal", err)
	}
	return journal, nil
}

// AppendEntry adds a note and/or photo to the plant's journal, creating the
// journal if needed. An entry with neither is rejected before any store access.
func (s *JournalService) AppendEntry(ctx context.Context, plantID uuid.UUID, note string, photo []byte) (*domain.JournalEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(note) == "" && len(photo) == 0 {
		return nil, domain.NewValidationError("entry", "needs a note or a photo", domain.ErrEmptyJournalEntry)
	}

	var entry *domain.JournalEntry
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.plants.WithTx(tx).GetByID(ctx, plantID); err != nil {
			return err
		}

		journals := s.journal.WithTx(tx)
		journal, err := journals.GetOrCreate(ctx, plantID)
		if err != nil {
			return err
		}

		entry, err = domain.NewJournalEntry(journal, note, photo, s.now())
		if err != nil {
			return err
		}
		return journals.AddEntry(ctx, entry)
	})
	if err != nil {
		if domain.IsValidationError(err) {
			return nil, err
		}
		if !store.IsNotFoundError(err) {
			log.Error("failed to append journal entry",
				slog.String("error", err.Error()),
				slog.String("plant_id", plantID.String()))
		}
		return nil, wrap("append_entry", "failed to save journal entry", err)
	}

	log.Info("journal entry appended",
		slog.String("plant_id", plantID.String()),
		slog.String("entry_id", entry.ID.String()),
		slog.Bool("has_photo", entry.HasPhoto()))
	return entry, nil
}
