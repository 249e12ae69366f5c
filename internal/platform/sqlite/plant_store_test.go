package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/platform/sqlite"
	"github.com/phrazzld/sprout/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlantStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	plants := sqlite.NewPlantStore(newTestDB(t), nil)

	plant := mustPlant(t, "Windowsill basil", baseTime)
	plant.PlaceAt(placement.Point{X: 120.5, Y: 64})
	require.NoError(t, plants.Create(ctx, plant))

	got, err := plants.GetByID(ctx, plant.ID)
	require.NoError(t, err)
	assert.Equal(t, plant.ID, got.ID)
	assert.Equal(t, "Windowsill basil", got.Name)
	assert.Equal(t, "Basil", got.Species)
	assert.Equal(t, "basil", got.Icon)
	assert.True(t, got.CreatedAt.Equal(baseTime))
	assert.Equal(t, domain.StagePlanted, got.Stage())
	assert.True(t, got.Positioned)
	assert.Equal(t, placement.Point{X: 120.5, Y: 64}, got.Position)
}

func TestPlantStore_CreateRejectsInvalidAndDuplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	plants := sqlite.NewPlantStore(newTestDB(t), nil)

	invalid := mustPlant(t, "ok", baseTime)
	invalid.Name = "   "
	err := plants.Create(ctx, invalid)
	assert.ErrorIs(t, err, domain.ErrEmptyPlantName)

	plant := mustPlant(t, "Tomato", baseTime)
	require.NoError(t, plants.Create(ctx, plant))
	err = plants.Create(ctx, plant)
	assert.True(t, store.IsDuplicateError(err), "second insert should be a duplicate, got %v", err)
}

func TestPlantStore_GetMissing(t *testing.T) {
	t.Parallel()
	plants := sqlite.NewPlantStore(newTestDB(t), nil)

	_, err := plants.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrPlantNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestPlantStore_ListCreationOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	plants := sqlite.NewPlantStore(newTestDB(t), nil)

	later := mustPlant(t, "later", baseTime.Add(time.Hour))
	first := mustPlant(t, "first", baseTime)
	sameTimeA := mustPlant(t, "same-a", baseTime.Add(2*time.Hour))
	sameTimeB := mustPlant(t, "same-b", baseTime.Add(2*time.Hour))
	for _, p := range []*domain.Plant{later, first, sameTimeA, sameTimeB} {
		require.NoError(t, plants.Create(ctx, p))
	}

	list, err := plants.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"first", "later", "same-a", "same-b"}, names)
}

func TestPlantStore_ListEmpty(t *testing.T) {
	t.Parallel()
	list, err := sqlite.NewPlantStore(newTestDB(t), nil).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestPlantStore_UpdateGermination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	plants := sqlite.NewPlantStore(newTestDB(t), nil)

	plant := mustPlant(t, "Pepper", baseTime)
	require.NoError(t, plants.Create(ctx, plant))

	plant.Germinated = true
	plant.GerminatedAt = baseTime.Add(72 * time.Hour)
	require.NoError(t, plants.Update(ctx, plant))

	got, err := plants.GetByID(ctx, plant.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageGerminated, got.Stage())
	assert.True(t, got.GerminatedAt.Equal(baseTime.Add(72*time.Hour)))

	missing := mustPlant(t, "ghost", baseTime)
	assert.ErrorIs(t, plants.Update(ctx, missing), store.ErrPlantNotFound)
}

func TestPlantStore_UpdatePositionAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	plants := sqlite.NewPlantStore(newTestDB(t), nil)

	plant := mustPlant(t, "Chive", baseTime)
	require.NoError(t, plants.Create(ctx, plant))

	require.NoError(t, plants.UpdatePosition(ctx, plant.ID, placement.Point{X: 10, Y: 20}))
	got, err := plants.GetByID(ctx, plant.ID)
	require.NoError(t, err)
	assert.True(t, got.Positioned)
	assert.Equal(t, placement.Point{X: 10, Y: 20}, got.Position)

	assert.ErrorIs(t, plants.UpdatePosition(ctx, uuid.New(), placement.Point{}), store.ErrPlantNotFound)

	require.NoError(t, plants.Delete(ctx, plant.ID))
	_, err = plants.GetByID(ctx, plant.ID)
	assert.ErrorIs(t, err, store.ErrPlantNotFound)
	assert.ErrorIs(t, plants.Delete(ctx, plant.ID), store.ErrPlantNotFound)
}
