package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/sprout/internal/api/shared"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/service"
	"github.com/phrazzld/sprout/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case domain.IsValidationError(err),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, placement.ErrInvalidShape),
		errors.Is(err, placement.ErrInvalidBounds),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrRegionRequired),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)

	case errors.Is(err, placement.ErrInvalidShape):
		return "Invalid region shape"

	case errors.Is(err, placement.ErrInvalidBounds):
		return "Invalid region bounds"

	case errors.Is(err, store.ErrPlantNotFound):
		return "Plant not found"

	case errors.Is(err, store.ErrJournalNotFound):
		return "Journal not found"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, service.ErrRegionRequired):
		return "Garden region has not been set"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and message for err. When msg is empty
// the safe message derived from err is used.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := MapErrorToStatusCode(err)
	if msg == "" {
		msg = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// handleBadRequest writes a 400 for malformed or invalid request bodies.
func handleBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	msg := "Invalid request format"
	if errors.As(err, &validationErrs) {
		msg = SanitizeValidationError(err)
	} else if errors.Is(err, shared.ErrEmptyBody) {
		msg = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msg, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'CreatePlantRequest.Name' Error:Field validation for 'Name' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "base64":
		return "must be base64 encoded"
	case "gtfield":
		return "must exceed the minimum"
	default:
		return "validation failed"
	}
}
