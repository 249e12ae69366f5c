package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phrazzld/sprout/internal/config"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/platform/sqlite"
	"github.com/phrazzld/sprout/internal/tips"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dbURL string) *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug"},
		Database: config.DatabaseConfig{Driver: "sqlite", URL: dbURL},
		LLM:      config.LLMConfig{ModelName: "gemini-2.0-flash", MaxRetries: 0, RetryDelaySeconds: 1},
		Tips:     config.TipsConfig{DeviceMinMajor: 16, DeviceOverride: "auto"},
		Task:     config.TaskConfig{WorkerCount: 1, QueueSize: 4},
		Garden:   config.GardenConfig{PlacementAttempts: 100, ItemSize: 40, MinGap: 4},
	}
}

// writeConfig writes a config file using a sqlite database in a temp dir.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := "database:\n  driver: sqlite\n  url: " + filepath.Join(dir, "sprout.db") + "\n" +
		"llm:\n  gemini_api_key: \"\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestApplicationServesPlants(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	log, _ := logger.NewBufferLogger()

	app, err := newApplication(ctx, testConfig(sqlite.MemoryDSN), log)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	handler, err := app.router()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/plants",
		strings.NewReader(`{"name":"Windowsill","species":"Basil","icon":"leaf"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/species/basil/tips", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var display tips.Display
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &display))
	assert.Equal(t, tips.SourceStatic, display.Source)
	assert.Len(t, display.Tips, 7)
	assert.False(t, display.Pending, "no generator is configured")

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sprout_tips_served_total")
}

func TestApplicationRejectsUnknownDriver(t *testing.T) {
	t.Parallel()
	log, _ := logger.NewBufferLogger()

	cfg := testConfig("whatever")
	cfg.Database.Driver = "mysql"

	_, err := newApplication(context.Background(), cfg, log)
	require.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()
	log, _ := logger.NewBufferLogger()

	cfg := testConfig(sqlite.MemoryDSN)
	cfg.Server.Port = 0
	app, err := newApplication(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, app.Run(ctx))
}

// TestCommands runs the command tree end to end. The subtests are sequential
// because the root command installs the process-wide default logger.
func TestCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
		check   func(t *testing.T, stdout string)
	}{
		{
			name: "migrate up",
			args: []string{"migrate", "up"},
		},
		{
			name: "migrate status",
			args: []string{"migrate", "status"},
		},
		{
			name:    "migrate unknown command",
			args:    []string{"migrate", "sideways"},
			wantErr: true,
		},
		{
			name: "static tips without api key",
			args: []string{"tips", "Basil"},
			check: func(t *testing.T, stdout string) {
				lines := strings.Split(strings.TrimSpace(stdout), "\n")
				assert.Len(t, lines, 7)
				assert.True(t, strings.HasPrefix(lines[0], "Water"), lines[0])
			},
		},
		{
			name:    "tips for unknown species",
			args:    []string{"tips", "Mandrake"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			cmd := newRootCommand()
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			cmd.SetArgs(append([]string{"--config", writeConfig(t)}, tc.args...))

			err := cmd.ExecuteContext(context.Background())
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err, stderr.String())
			if tc.check != nil {
				tc.check(t, stdout.String())
			}
		})
	}
}
