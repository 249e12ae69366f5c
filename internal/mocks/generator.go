package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/sprout/internal/generation"
)

// MockGenerator implements generation.TipGenerator for testing
type MockGenerator struct {
	// GenerateTipsFn allows test cases to mock the GenerateTips behavior
	GenerateTipsFn func(ctx context.Context, prompt string) (string, error)

	// Default response values
	Text string
	Err  error

	// mu protects the call tracking state for concurrent test cases
	mu      sync.Mutex
	count   int
	prompts []string
}

var _ generation.TipGenerator = (*MockGenerator)(nil)

// GenerateTips implements the generation.TipGenerator interface
func (m *MockGenerator) GenerateTips(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.count++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.GenerateTipsFn != nil {
		return m.GenerateTipsFn(ctx, prompt)
	}
	return m.Text, m.Err
}

// Calls returns how many times GenerateTips was called.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Prompts returns a copy of every prompt passed to GenerateTips.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// NewMockGeneratorWithText creates a MockGenerator that returns the given text
func NewMockGeneratorWithText(text string) *MockGenerator {
	return &MockGenerator{Text: text}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the specified error
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// NewBlockingGenerator returns a generator that waits for release to be
// closed (or ctx to end) before answering with text.
func NewBlockingGenerator(text string, release <-chan struct{}) *MockGenerator {
	return &MockGenerator{
		GenerateTipsFn: func(ctx context.Context, _ string) (string, error) {
			select {
			case <-release:
				return text, nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}
}
