package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/sprout/internal/config"
	"github.com/phrazzld/sprout/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeCall struct {
	resp *genai.GenerateContentResponse
	err  error
}

// fakeModels replays scripted results and records every call.
type fakeModels struct {
	mu      sync.Mutex
	results []fakeCall
	prompts []string
	models  []string
}

func (f *fakeModels) GenerateContent(
	_ context.Context,
	model string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.models = append(f.models, model)
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	}

	if len(f.results) == 0 {
		return nil, errors.New("unexpected call")
	}
	next := f.results[0]
	f.results = f.results[1:]
	return next.resp, next.err
}

func (f *fakeModels) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		GeminiAPIKey:      "test-key",
		ModelName:         "gemini-test",
		MaxRetries:        2,
		RetryDelaySeconds: 1,
	}
}

func newTestGenerator(t *testing.T, fake *fakeModels) (*GeminiGenerator, *[]time.Duration) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g, err := newGenerator(logger, testConfig(), fake)
	require.NoError(t, err)

	var delays []time.Duration
	g.sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return ctx.Err()
	}
	return g, &delays
}

func TestGenerateTips_Success(t *testing.T) {
	t.Parallel()
	fake := &fakeModels{results: []fakeCall{{resp: textResponse("1. Keep soil moist\n", "2. Avoid direct sun")}}}
	g, delays := newTestGenerator(t, fake)

	text, err := g.GenerateTips(context.Background(), "tips for basil")

	require.NoError(t, err)
	assert.Equal(t, "1. Keep soil moist\n2. Avoid direct sun", text)
	assert.Equal(t, []string{"tips for basil"}, fake.prompts)
	assert.Equal(t, []string{"gemini-test"}, fake.models)
	assert.Empty(t, *delays)
}

func TestGenerateTips_RetriesTransientErrors(t *testing.T) {
	t.Parallel()
	fake := &fakeModels{results: []fakeCall{
		{err: errors.New("503 unavailable")},
		{err: errors.New("deadline exceeded upstream")},
		{resp: textResponse("1. Water weekly")},
	}}
	g, delays := newTestGenerator(t, fake)

	text, err := g.GenerateTips(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "1. Water weekly", text)
	assert.Equal(t, 3, fake.calls())
	require.Len(t, *delays, 2)
	// base 1s: first wait within [0.5s, 1s], second within [1s, 2s]
	assert.GreaterOrEqual(t, (*delays)[0], 500*time.Millisecond)
	assert.LessOrEqual(t, (*delays)[0], time.Second)
	assert.GreaterOrEqual(t, (*delays)[1], time.Second)
	assert.LessOrEqual(t, (*delays)[1], 2*time.Second)
}

func TestGenerateTips_ExhaustsRetries(t *testing.T) {
	t.Parallel()
	fake := &fakeModels{results: []fakeCall{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
		{err: errors.New("boom")},
	}}
	g, _ := newTestGenerator(t, fake)

	_, err := g.GenerateTips(context.Background(), "prompt")

	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Equal(t, 3, fake.calls(), "MaxRetries=2 allows three attempts")
}

func TestGenerateTips_PermanentErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		wantErr error
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name:    "blank text",
			resp:    textResponse("  ", "\n"),
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name: "safety stop",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			},
			wantErr: generation.ErrContentBlocked,
		},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason: genai.BlockedReasonSafety,
				},
			},
			wantErr: generation.ErrContentBlocked,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			fake := &fakeModels{results: []fakeCall{{resp: tc.resp}, {resp: textResponse("unused")}}}
			g, delays := newTestGenerator(t, fake)

			_, err := g.GenerateTips(context.Background(), "prompt")

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 1, fake.calls(), "permanent errors must not be retried")
			assert.Empty(t, *delays)
		})
	}
}

func TestGenerateTips_CancelledContext(t *testing.T) {
	t.Parallel()
	fake := &fakeModels{results: []fakeCall{{err: context.Canceled}, {resp: textResponse("unused")}}}
	g, _ := newTestGenerator(t, fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.GenerateTips(ctx, "prompt")

	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Equal(t, 1, fake.calls())
}

func TestGenerateTips_EmptyPrompt(t *testing.T) {
	t.Parallel()
	fake := &fakeModels{}
	g, _ := newTestGenerator(t, fake)

	_, err := g.GenerateTips(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyPrompt)
	assert.Zero(t, fake.calls())
}

func TestNewGenerator_Validation(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	noKey := testConfig()
	noKey.GeminiAPIKey = ""
	_, err := newGenerator(logger, noKey, &fakeModels{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	noModel := testConfig()
	noModel.ModelName = ""
	_, err = newGenerator(logger, noModel, &fakeModels{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = newGenerator(nil, testConfig(), &fakeModels{})
	assert.Error(t, err)

	_, err = newGenerator(logger, testConfig(), nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGeminiGenerator(context.Background(), logger, noKey)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewGenerator_DefaultsRetrySettings(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := testConfig()
	cfg.MaxRetries = -1
	cfg.RetryDelaySeconds = 0

	g, err := newGenerator(logger, cfg, &fakeModels{})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxRetries, g.config.MaxRetries)
	assert.Equal(t, defaultRetryDelaySeconds, g.config.RetryDelaySeconds)
}
