package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/phrazzld/sprout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePlant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid plant",
			body:       `{"name":"Windowsill","species":"Basil","icon":"leaf"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing name",
			body:       `{"species":"Basil","icon":"leaf"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid Name: required field",
		},
		{
			name:       "blank name after trimming",
			body:       `{"name":"   ","species":"Basil","icon":"leaf"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid name: cannot be empty",
		},
		{
			name:       "unknown field",
			body:       `{"name":"a","species":"Basil","icon":"leaf","owner":"me"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "malformed json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)

			rr := env.do(t, http.MethodPost, "/api/plants", tc.body)
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())

			if tc.wantError != "" {
				var resp map[string]any
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tc.wantError, resp["error"])
				assert.NotEmpty(t, resp["trace_id"])
				return
			}

			var plant PlantResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plant))
			assert.Equal(t, "Windowsill", plant.Name)
			assert.Equal(t, domain.StagePlanted, plant.Stage)
			assert.Nil(t, plant.GerminatedAt)
			assert.Nil(t, plant.Position)
		})
	}
}

func TestCreatePlantInternalErrorIsRedacted(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.garden.err = errors.New("dial postgres://sprout:hunter2@db:5432/sprout failed")

	rr := env.do(t, http.MethodPost, "/api/plants", `{"name":"a","species":"Basil","icon":"leaf"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "hunter2")
	assert.Contains(t, rr.Body.String(), "An unexpected error occurred")
}

func TestListPlantsKeepsCreationOrder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	first := env.garden.add("first")
	second := env.garden.add("second")

	rr := env.do(t, http.MethodGet, "/api/plants", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var plants []PlantResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plants))
	require.Len(t, plants, 2)
	assert.Equal(t, first.ID, plants[0].ID)
	assert.Equal(t, second.ID, plants[1].ID)
}

func TestGetPlant(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	plant := env.garden.add("basil")

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"existing", "/api/plants/" + plant.ID.String(), http.StatusOK},
		{"unknown", "/api/plants/7b0c2a4e-3f57-4d3a-9b86-6c1b5f4f1d11", http.StatusNotFound},
		{"malformed id", "/api/plants/not-a-uuid", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, http.MethodGet, tc.path, "")
			assert.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
		})
	}
}

func TestDeletePlant(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	plant := env.garden.add("basil")

	rr := env.do(t, http.MethodDelete, "/api/plants/"+plant.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = env.do(t, http.MethodDelete, "/api/plants/"+plant.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestConfirmGerminationIsIdempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	plant := env.garden.add("basil")
	path := "/api/plants/" + plant.ID.String() + "/germination"

	rr := env.do(t, http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var first PlantResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &first))
	assert.Equal(t, domain.StageGerminated, first.Stage)
	require.NotNil(t, first.GerminatedAt)

	rr = env.do(t, http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var second PlantResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &second))
	assert.Equal(t, *first.GerminatedAt, *second.GerminatedAt)
}

func TestPlantStatus(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	plant := env.garden.add("basil")

	rr := env.do(t, http.MethodGet, "/api/plants/"+plant.ID.String()+"/status", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp PlantStatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Status.AgeDays)
	assert.Equal(t, 6, resp.Status.DaysRemaining)
	assert.False(t, resp.Status.Overdue)
	assert.True(t, resp.Status.MetadataAvailable)
}

func TestSetRegion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"rect", `{"shape":"rect","min_x":0,"min_y":0,"max_x":400,"max_y":300}`, http.StatusOK},
		{"ellipse", `{"shape":"ellipse","min_x":-50,"min_y":-50,"max_x":50,"max_y":50}`, http.StatusOK},
		{"unknown shape", `{"shape":"hexagon","min_x":0,"min_y":0,"max_x":10,"max_y":10}`, http.StatusBadRequest},
		{"inverted bounds", `{"shape":"rect","min_x":10,"min_y":0,"max_x":5,"max_y":10}`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t)
			env.garden.add("basil")

			rr := env.do(t, http.MethodPut, "/api/garden/region", tc.body)
			require.Equal(t, tc.wantStatus, rr.Code, rr.Body.String())
			if tc.wantStatus != http.StatusOK {
				return
			}

			var resp RegionResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, 1, resp.Moved)
		})
	}
}

func TestRelayoutNeedsRegion(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.garden.add("basil")

	rr := env.do(t, http.MethodPost, "/api/garden/relayout", "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = env.do(t, http.MethodPut, "/api/garden/region", `{"shape":"rect","min_x":0,"min_y":0,"max_x":100,"max_y":100}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(t, http.MethodPost, "/api/garden/relayout", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}
