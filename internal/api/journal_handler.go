package api

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/api/shared"
	"github.com/phrazzld/sprout/internal/domain"
)

// JournalService is the subset of service.JournalService the handlers use.
type JournalService interface {
	GetOrCreateJournal(ctx context.Context, plantID uuid.UUID) (*domain.Journal, error)
	AppendEntry(ctx context.Context, plantID uuid.UUID, note string, photo []byte) (*domain.JournalEntry, error)
}

// JournalHandler handles journal requests.
type JournalHandler struct {
	journal JournalService
}

// NewJournalHandler creates a new JournalHandler.
func NewJournalHandler(journal JournalService) *JournalHandler {
	return &JournalHandler{journal: journal}
}

// GetJournal handles GET /api/plants/{id}/journal, creating the journal on
// first access.
func (h *JournalHandler) GetJournal(w http.ResponseWriter, r *http.Request) {
	plantID, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	journal, err := h.journal.GetOrCreateJournal(r.Context(), plantID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, journalToResponse(journal))
}

// AppendEntry handles POST /api/plants/{id}/journal.
func (h *JournalHandler) AppendEntry(w http.ResponseWriter, r *http.Request) {
	plantID, ok := handlePathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AppendEntryRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		handleBadRequest(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		handleBadRequest(w, r, err)
		return
	}

	var photo []byte
	if req.Photo != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.Photo)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("photo", "must be base64 encoded", domain.ErrValidation), "")
			return
		}
		photo = decoded
	}

	entry, err := h.journal.AppendEntry(r.Context(), plantID, req.Note, photo)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, entryToResponse(*entry))
}
