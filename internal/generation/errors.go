package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when tip generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate tips")

	// ErrInvalidResponse is returned when the model response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrEmptyResponse is returned when a response parses to zero tips.
	// Empty results are never memoized, so the next request retries.
	ErrEmptyResponse = errors.New("language model returned no tips")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during tip generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrDeviceIncompatible is returned when generation is not permitted on the
	// requesting device.
	ErrDeviceIncompatible = errors.New("device does not support tip generation")
)
