package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for journals
var (
	ErrEmptyJournalID    = errors.New("journal ID cannot be empty")
	ErrEmptyJournalPlant = errors.New("journal plant ID cannot be empty")
	ErrEmptyJournalEntry = errors.New("journal entry needs a note or a photo")
	ErrEmptyEntryID      = errors.New("journal entry ID cannot be empty")
	ErrEmptyEntryJournal = errors.New("journal entry journal ID cannot be empty")
)

// Journal is the per-plant diary. Each plant has at most one.
type Journal struct {
	ID        uuid.UUID      `json:"id"`
	PlantID   uuid.UUID      `json:"plant_id"`
	CreatedAt time.Time      `json:"created_at"`
	Entries   []JournalEntry `json:"entries"`
}

// NewJournal creates an empty journal for a plant.
func NewJournal(plantID uuid.UUID, now time.Time) (*Journal, error) {
	j := &Journal{
		ID:        uuid.New(),
		PlantID:   plantID,
		CreatedAt: now.UTC(),
		Entries:   []JournalEntry{},
	}

	if err := j.Validate(); err != nil {
		return nil, err
	}

	return j, nil
}

// Validate checks if the Journal has valid data.
func (j *Journal) Validate() error {
	if j.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyJournalID)
	}
	if j.PlantID == uuid.Nil {
		return NewValidationError("plant_id", "cannot be empty", ErrEmptyJournalPlant)
	}
	return nil
}

// JournalEntry is an immutable note and/or photo attached to a journal.
// Photo is an opaque binary payload and is never decoded.
type JournalEntry struct {
	ID        uuid.UUID `json:"id"`
	JournalID uuid.UUID `json:"journal_id"`
	PlantID   uuid.UUID `json:"plant_id"`
	CreatedAt time.Time `json:"created_at"`
	Note      string    `json:"note,omitempty"`
	Photo     []byte    `json:"photo,omitempty"`
}

// NewJournalEntry creates an entry for the given journal. At least one of note
// or photo must carry content.
func NewJournalEntry(journal *Journal, note string, photo []byte, now time.Time) (*JournalEntry, error) {
	if journal == nil {
		return nil, NewValidationError("journal", "cannot be nil", ErrEmptyEntryJournal)
	}

	entry := &JournalEntry{
		ID:        uuid.New(),
		JournalID: journal.ID,
		PlantID:   journal.PlantID,
		CreatedAt: now.UTC(),
		Note:      note,
	}
	if len(photo) > 0 {
		entry.Photo = photo
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the entry has valid data.
func (e *JournalEntry) Validate() error {
	if e.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrEmptyEntryID)
	}
	if e.JournalID == uuid.Nil {
		return NewValidationError("journal_id", "cannot be empty", ErrEmptyEntryJournal)
	}
	if e.PlantID == uuid.Nil {
		return NewValidationError("plant_id", "cannot be empty", ErrEmptyJournalPlant)
	}
	if strings.TrimSpace(e.Note) == "" && len(e.Photo) == 0 {
		return NewValidationError("entry", "needs a note or a photo", ErrEmptyJournalEntry)
	}
	return nil
}

// HasPhoto reports whether the entry carries a photo payload.
func (e *JournalEntry) HasPhoto() bool {
	return len(e.Photo) > 0
}
