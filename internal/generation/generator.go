package generation

import (
	"context"
)

// TipGenerator defines the interface for the remote tip generation service.
// This interface serves as a boundary between the application core and
// external LLM services, so tests can substitute a deterministic double.
type TipGenerator interface {
	// GenerateTips sends a single composed prompt and returns the raw text
	// produced by the model.
	//
	// Implementations may block for an unbounded, externally controlled time.
	// Callers control cancellation through ctx.
	GenerateTips(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts an ordinary function to the TipGenerator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// GenerateTips calls f(ctx, prompt).
func (f GeneratorFunc) GenerateTips(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
