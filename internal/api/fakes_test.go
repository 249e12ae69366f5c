package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/catalog"
	"github.com/phrazzld/sprout/internal/domain/lifecycle"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/service"
	"github.com/phrazzld/sprout/internal/store"
	"github.com/phrazzld/sprout/internal/tips"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

// fakeGarden keeps plants in memory and lets tests inject errors.
type fakeGarden struct {
	plants map[uuid.UUID]*domain.Plant
	order  []uuid.UUID
	region *placement.Region
	err    error
}

func newFakeGarden() *fakeGarden {
	return &fakeGarden{plants: map[uuid.UUID]*domain.Plant{}}
}

func (f *fakeGarden) add(name string) *domain.Plant {
	p, err := domain.NewPlant(name, "Basil", "leaf", testTime)
	if err != nil {
		panic(err)
	}
	f.plants[p.ID] = p
	f.order = append(f.order, p.ID)
	return p
}

func (f *fakeGarden) CreatePlant(_ context.Context, in service.CreatePlantInput) (*domain.Plant, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, err := domain.NewPlant(in.Name, in.Species, in.Icon, testTime)
	if err != nil {
		return nil, err
	}
	if f.region != nil {
		p.PlaceAt(f.region.Center())
	}
	f.plants[p.ID] = p
	f.order = append(f.order, p.ID)
	return p, nil
}

func (f *fakeGarden) GetPlant(_ context.Context, id uuid.UUID) (*domain.Plant, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.plants[id]
	if !ok {
		return nil, store.ErrPlantNotFound
	}
	return p, nil
}

func (f *fakeGarden) ListPlants(context.Context) ([]*domain.Plant, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Plant, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.plants[id])
	}
	return out, nil
}

func (f *fakeGarden) DeletePlant(_ context.Context, id uuid.UUID) error {
	if _, ok := f.plants[id]; !ok {
		return store.ErrPlantNotFound
	}
	delete(f.plants, id)
	return nil
}

func (f *fakeGarden) ConfirmGermination(ctx context.Context, id uuid.UUID) (*domain.Plant, error) {
	p, err := f.GetPlant(ctx, id)
	if err != nil {
		return nil, err
	}
	lifecycle.Confirm(p, testTime.Add(72*time.Hour))
	return p, nil
}

func (f *fakeGarden) PlantStatus(ctx context.Context, id uuid.UUID) (*service.PlantStatus, error) {
	p, err := f.GetPlant(ctx, id)
	if err != nil {
		return nil, err
	}
	basil := catalog.Species{Name: "Basil", MaxGerminationDays: 10}
	return &service.PlantStatus{
		Plant:  p,
		Status: lifecycle.Derive(*p, &basil, testTime.Add(4*24*time.Hour)),
	}, nil
}

func (f *fakeGarden) SetRegion(_ context.Context, region placement.Region) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.region = &region
	return len(f.plants), nil
}

func (f *fakeGarden) Relayout(ctx context.Context) ([]*domain.Plant, error) {
	if f.region == nil {
		return nil, service.ErrRegionRequired
	}
	return f.ListPlants(ctx)
}

// fakeJournal stores entries per plant, newest first.
type fakeJournal struct {
	garden   *fakeGarden
	journals map[uuid.UUID]*domain.Journal
}

func (f *fakeJournal) GetOrCreateJournal(ctx context.Context, plantID uuid.UUID) (*domain.Journal, error) {
	if _, err := f.garden.GetPlant(ctx, plantID); err != nil {
		return nil, err
	}
	j, ok := f.journals[plantID]
	if !ok {
		var err error
		j, err = domain.NewJournal(plantID, testTime)
		if err != nil {
			return nil, err
		}
		f.journals[plantID] = j
	}
	return j, nil
}

func (f *fakeJournal) AppendEntry(ctx context.Context, plantID uuid.UUID, note string, photo []byte) (*domain.JournalEntry, error) {
	j, err := f.GetOrCreateJournal(ctx, plantID)
	if err != nil {
		return nil, err
	}
	at := testTime.Add(time.Duration(len(j.Entries)+1) * time.Minute)
	entry, err := domain.NewJournalEntry(j, note, photo, at)
	if err != nil {
		return nil, err
	}
	j.Entries = append([]domain.JournalEntry{*entry}, j.Entries...)
	return entry, nil
}

type fakeCatalog []catalog.Species

func (c fakeCatalog) All() []catalog.Species { return c }

// fakeTips records the arguments it was called with.
type fakeTips struct {
	species string
	device  string
}

func (f *fakeTips) ForDisplay(_ context.Context, species, deviceModel string) tips.Display {
	f.species = species
	f.device = deviceModel
	if !strings.EqualFold(species, "basil") {
		return tips.Display{Species: species, Source: tips.SourceUnavailable, Tips: []string{}}
	}
	return tips.Display{Species: "Basil", Source: tips.SourceStatic, Tips: []string{"Water: keep moist"}, Pending: true}
}

type testEnv struct {
	handler http.Handler
	garden  *fakeGarden
	journal *fakeJournal
	tips    *fakeTips
	gather  *prometheus.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	garden := newFakeGarden()
	env := &testEnv{
		garden:  garden,
		journal: &fakeJournal{garden: garden, journals: map[uuid.UUID]*domain.Journal{}},
		tips:    &fakeTips{},
		gather:  prometheus.NewRegistry(),
	}

	log, _ := logger.NewBufferLogger()
	h, err := NewRouter(RouterConfig{
		Garden:   env.garden,
		Journal:  env.journal,
		Catalog:  fakeCatalog{{Name: "Basil", MaxGerminationDays: 10}, {Name: "Tomato", MaxGerminationDays: 14}},
		Tips:     env.tips,
		Logger:   log,
		Registry: env.gather,
		Gatherer: env.gather,
	})
	require.NoError(t, err)
	env.handler = h
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}
