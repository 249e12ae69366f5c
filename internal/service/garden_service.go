package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/domain/catalog"
	"github.com/phrazzld/sprout/internal/domain/lifecycle"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/platform/logger"
	"github.com/phrazzld/sprout/internal/store"
)

// Layout holds the placement parameters used when positioning plants.
type Layout struct {
	// ItemSize is the base item size before count scaling.
	ItemSize float64
	// MinGap is the extra clearance between neighbouring items.
	MinGap float64
}

// CreatePlantInput carries the user-chosen fields of a new plant.
type CreatePlantInput struct {
	Name    string `json:"name"`
	Species string `json:"species"`
	Icon    string `json:"icon"`
}

// PlantStatus pairs a plant with its derived lifecycle status.
type PlantStatus struct {
	Plant  *domain.Plant    `json:"plant"`
	Status lifecycle.Status `json:"status"`
}

// GardenService manages plants, their germination and their layout.
type GardenService struct {
	db      store.TxBeginner
	plants  store.PlantStore
	journal store.JournalStore
	garden  store.GardenStore
	catalog *catalog.Catalog
	engine  *placement.Engine
	layout  Layout
	now     func() time.Time
	logger  *slog.Logger
}

// NewGardenService creates a GardenService.
// It returns an error if any of the required dependencies are nil.
func NewGardenService(
	db store.TxBeginner,
	plants store.PlantStore,
	journal store.JournalStore,
	garden store.GardenStore,
	cat *catalog.Catalog,
	engine *placement.Engine,
	layout Layout,
	logger *slog.Logger,
) (*GardenService, error) {
	switch {
	case db == nil:
		return nil, fmt.Errorf("%w: db", ErrMissingDependency)
	case plants == nil:
		return nil, fmt.Errorf("%w: plant store", ErrMissingDependency)
	case journal == nil:
		return nil, fmt.Errorf("%w: journal store", ErrMissingDependency)
	case garden == nil:
		return nil, fmt.Errorf("%w: garden store", ErrMissingDependency)
	case cat == nil:
		return nil, fmt.Errorf("%w: catalog", ErrMissingDependency)
	}

	if engine == nil {
		engine = placement.NewEngine(placement.DefaultMaxAttempts, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &GardenService{
		db:      db,
		plants:  plants,
		journal: journal,
		garden:  garden,
		catalog: cat,
		engine:  engine,
		layout:  layout,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "garden_service")),
	}, nil
}

// SetClock replaces the time source. Tests use it to pin plant ages.
func (s *GardenService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreatePlant validates and stores a new plant. If a garden region is known
// the plant is placed clear of the existing plants at the scaled item size.
func (s *GardenService) CreatePlant(ctx context.Context, in CreatePlantInput) (*domain.Plant, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	plant, err := domain.NewPlant(in.Name, in.Species, in.Icon, s.now())
	if err != nil {
		log.Debug("rejected new plant", slog.String("error", err.Error()))
		return nil, err
	}

	if _, known := s.catalog.Lookup(plant.Species); !known {
		log.Warn("plant species not in catalog; lifecycle metadata will be unavailable",
			slog.String("species", plant.Species))
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		plants := s.plants.WithTx(tx)

		region, err := s.garden.WithTx(tx).GetRegion(ctx)
		switch {
		case errors.Is(err, store.ErrRegionNotSet):
			// Placed once the first region arrives.
		case err != nil:
			return err
		default:
			existing, err := plants.List(ctx)
			if err != nil {
				return err
			}
			s.place(ctx, plant, region, domain.Positions(existing, uuid.Nil), len(existing)+1)
		}

		return plants.Create(ctx, plant)
	})
	if err != nil {
		if domain.IsValidationError(err) {
			return nil, err
		}
		log.Error("failed to create plant", slog.String("error", err.Error()))
		return nil, wrap("create_plant", "failed to save plant", err)
	}

	log.Info("plant created",
		slog.String("plant_id", plant.ID.String()),
		slog.String("species", plant.Species),
		slog.Bool("positioned", plant.Positioned))
	return plant, nil
}

// place assigns a position to plant and logs when the attempt budget ran out.
func (s *GardenService) place(ctx context.Context, plant *domain.Plant, region placement.Region, occupied []placement.Point, count int) {
	size := placement.ScaledSize(s.layout.ItemSize, count)
	pos, ok := s.engine.TryPlace(region, occupied, size, s.layout.MinGap)
	if !ok {
		logger.FromContextOrDefault(ctx, s.logger).Debug("placement attempts exhausted; using region center",
			slog.String("plant_id", plant.ID.String()),
			slog.Int("occupied", len(occupied)),
			slog.Float64("item_size", size))
	}
	plant.PlaceAt(pos)
}

// GetPlant retrieves a plant by ID.
func (s *GardenService) GetPlant(ctx context.Context, id uuid.UUID) (*domain.Plant, error) {
	plant, err := s.plants.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("get_plant", "failed to retrieve plant", err)
	}
	return plant, nil
}

// ListPlants returns every plant in creation order.
func (s *GardenService) ListPlants(ctx context.Context) ([]*domain.Plant, error) {
	plants, err := s.plants.List(ctx)
	if err != nil {
		return nil, wrap("list_plants", "failed to list plants", err)
	}
	return plants, nil
}

// DeletePlant removes a plant together with its journal and entries.
func (s *GardenService) DeletePlant(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.journal.WithTx(tx).DeleteByPlant(ctx, id); err != nil {
			return err
		}
		return s.plants.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to delete plant",
				slog.String("error", err.Error()),
				slog.String("plant_id", id.String()))
		}
		return wrap("delete_plant", "failed to delete plant", err)
	}

	log.Info("plant deleted", slog.String("plant_id", id.String()))
	return nil
}

// ConfirmGermination moves a plant to the Germinated stage. Confirming an
// already germinated plant changes nothing and is not an error.
func (s *GardenService) ConfirmGermination(ctx context.Context, id uuid.UUID) (*domain.Plant, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var plant *domain.Plant
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		plants := s.plants.WithTx(tx)

		p, err := plants.GetByID(ctx, id)
		if err != nil {
			return err
		}
		plant = p

		if !lifecycle.Confirm(p, s.now()) {
			log.Debug("germination already confirmed", slog.String("plant_id", id.String()))
			return nil
		}
		return plants.Update(ctx, p)
	})
	if err != nil {
		return nil, wrap("confirm_germination", "failed to confirm germination", err)
	}

	log.Info("germination confirmed",
		slog.String("plant_id", id.String()),
		slog.Time("germinated_at", plant.GerminatedAt))
	return plant, nil
}

// PlantStatus derives the lifecycle status of a plant at the current time.
func (s *GardenService) PlantStatus(ctx context.Context, id uuid.UUID) (*PlantStatus, error) {
	plant, err := s.plants.GetByID(ctx, id)
	if err != nil {
		return nil, wrap("plant_status", "failed to retrieve plant", err)
	}
	return &PlantStatus{
		Plant:  plant,
		Status: lifecycle.DeriveFromCatalog(*plant, s.catalog, s.now()),
	}, nil
}

// Region returns the last-known garden region.
func (s *GardenService) Region(ctx context.Context) (placement.Region, error) {
	region, err := s.garden.GetRegion(ctx)
	if errors.Is(err, store.ErrRegionNotSet) {
		return placement.Region{}, NewServiceError("get_region", "no region recorded", ErrRegionRequired)
	}
	if err != nil {
		return placement.Region{}, wrap("get_region", "failed to read region", err)
	}
	return region, nil
}

// SetRegion records the garden region and places every plant that is not yet
// positioned or now lies outside it. It returns the number of plants moved.
// Plants already inside the region keep their positions.
func (s *GardenService) SetRegion(ctx context.Context, region placement.Region) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := region.Validate(); err != nil {
		return 0, domain.NewValidationError("region", err.Error(), err)
	}

	moved := 0
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		plants := s.plants.WithTx(tx)

		if err := s.garden.WithTx(tx).SetRegion(ctx, region); err != nil {
			return err
		}

		all, err := plants.List(ctx)
		if err != nil {
			return err
		}

		var occupied []placement.Point
		var stray []*domain.Plant
		for _, p := range all {
			if p.Positioned && region.Contains(p.Position) {
				occupied = append(occupied, p.Position)
				continue
			}
			stray = append(stray, p)
		}

		for _, p := range stray {
			s.place(ctx, p, region, occupied, len(all))
			if err := plants.UpdatePosition(ctx, p.ID, p.Position); err != nil {
				return err
			}
			occupied = append(occupied, p.Position)
			moved++
		}
		return nil
	})
	if err != nil {
		log.Error("failed to set garden region", slog.String("error", err.Error()))
		return 0, wrap("set_region", "failed to store region", err)
	}

	log.Info("garden region updated",
		slog.String("shape", string(region.Shape)),
		slog.Int("plants_moved", moved))
	return moved, nil
}

// Relayout re-places every plant, in creation order, at the item size scaled
// for the current plant count. It requires a recorded region.
func (s *GardenService) Relayout(ctx context.Context) ([]*domain.Plant, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var all []*domain.Plant
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		plants := s.plants.WithTx(tx)

		region, err := s.garden.WithTx(tx).GetRegion(ctx)
		if errors.Is(err, store.ErrRegionNotSet) {
			return NewServiceError("relayout", "no region recorded", ErrRegionRequired)
		}
		if err != nil {
			return err
		}

		all, err = plants.List(ctx)
		if err != nil {
			return err
		}

		occupied := make([]placement.Point, 0, len(all))
		for _, p := range all {
			s.place(ctx, p, region, occupied, len(all))
			if err := plants.UpdatePosition(ctx, p.ID, p.Position); err != nil {
				return err
			}
			occupied = append(occupied, p.Position)
		}
		return nil
	})
	if err != nil {
		return nil, wrap("relayout", "failed to re-layout plants", err)
	}

	log.Info("garden re-laid out", slog.Int("plant_count", len(all)))
	return all, nil
}
