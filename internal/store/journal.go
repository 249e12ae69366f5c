package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
)

// JournalStore defines the interface for journal and journal entry persistence.
type JournalStore interface {
	// GetOrCreate returns the plant's journal, creating an empty one on first
	// access. Repeated calls return the same journal. The returned journal
	// carries its entries newest first.
	GetOrCreate(ctx context.Context, plantID uuid.UUID) (*domain.Journal, error)

	// GetByPlant returns the plant's journal with its entries newest first.
	// Returns ErrJournalNotFound if the journal was never created.
	GetByPlant(ctx context.Context, plantID uuid.UUID) (*domain.Journal, error)

	// AddEntry appends an entry to an existing journal.
	// Returns ErrJournalNotFound if the journal does not exist.
	AddEntry(ctx context.Context, entry *domain.JournalEntry) error

	// ListEntries returns the plant's entries ordered newest first. Entries with
	// equal timestamps are ordered by insertion, latest first.
	// Returns an empty slice if there are none.
	ListEntries(ctx context.Context, plantID uuid.UUID) ([]domain.JournalEntry, error)

	// DeleteByPlant removes the plant's journal and all of its entries.
	// Deleting a journal that does not exist is not an error.
	DeleteByPlant(ctx context.Context, plantID uuid.UUID) error

	// WithTx returns a new JournalStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) JournalStore
}
