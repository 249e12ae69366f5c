package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyPrompt is returned when an empty prompt is passed to the generator.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)
