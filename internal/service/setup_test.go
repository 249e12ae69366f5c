package service_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/phrazzld/sprout/internal/domain/catalog"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/platform/migrations"
	"github.com/phrazzld/sprout/internal/platform/sqlite"
	"github.com/phrazzld/sprout/internal/service"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

type harness struct {
	garden  *service.GardenService
	journal *service.JournalService
	plants  *sqlite.PlantStore
	clock   *time.Time
}

func (h *harness) advance(d time.Duration) {
	*h.clock = h.clock.Add(d)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(ctx, migrations.DriverSQLite, db, nil))

	cat, err := catalog.Default()
	require.NoError(t, err)

	plants := sqlite.NewPlantStore(db, nil)
	journals := sqlite.NewJournalStore(db, nil)
	garden := sqlite.NewGardenStore(db, nil)
	engine := placement.NewEngine(placement.DefaultMaxAttempts, rand.NewPCG(7, 11))

	gardenSvc, err := service.NewGardenService(db, plants, journals, garden, cat, engine,
		service.Layout{ItemSize: 40, MinGap: 8}, nil)
	require.NoError(t, err)
	journalSvc, err := service.NewJournalService(db, plants, journals, nil)
	require.NoError(t, err)

	now := start
	h := &harness{garden: gardenSvc, journal: journalSvc, plants: plants, clock: &now}
	clock := func() time.Time { return *h.clock }
	gardenSvc.SetClock(clock)
	journalSvc.SetClock(clock)
	return h
}
