// Package gemini provides an implementation of the generation.TipGenerator
// interface that uses Google's Gemini API to write species care tips.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's tip cache to Google's external Gemini service
// without exposing the details of that service to the rest of the application.
//
// Key components:
//
// 1. GeminiGenerator:
//   - Implements the generation.TipGenerator interface
//   - Sends a single text prompt and returns the concatenated text parts
//
// 2. Error Handling:
//   - Retries transient API errors with exponential backoff and jitter
//   - Maps safety blocks to generation.ErrContentBlocked
//   - Maps malformed or empty responses to generation.ErrInvalidResponse
//
// The package depends on the google.golang.org/genai client library for
// authentication, request formatting and transport.
package gemini
