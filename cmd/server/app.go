package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/sprout/internal/config"
	"github.com/phrazzld/sprout/internal/domain/catalog"
	"github.com/phrazzld/sprout/internal/domain/placement"
	"github.com/phrazzld/sprout/internal/generation"
	"github.com/phrazzld/sprout/internal/platform/gemini"
	"github.com/phrazzld/sprout/internal/platform/migrations"
	"github.com/phrazzld/sprout/internal/platform/postgres"
	"github.com/phrazzld/sprout/internal/platform/sqlite"
	"github.com/phrazzld/sprout/internal/service"
	"github.com/phrazzld/sprout/internal/store"
	"github.com/phrazzld/sprout/internal/task"
	"github.com/phrazzld/sprout/internal/tips"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	registry *prometheus.Registry
	catalog  *catalog.Catalog

	plants  store.PlantStore
	journal store.JournalStore
	garden  store.GardenStore

	gardenService  *service.GardenService
	journalService *service.JournalService
	tipService     *tips.Service

	taskRunner *task.TaskRunner
}

// stores groups the store implementations of one database driver.
type stores struct {
	plants  store.PlantStore
	journal store.JournalStore
	garden  store.GardenStore
}

// newApplication creates a new application instance with all dependencies
// initialized. The database is opened and migrated before any service is built.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var err error
	app.db, err = openDatabase(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(ctx, cfg.Database.Driver, app.db, logger); err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	s, err := newStores(cfg.Database.Driver, app.db, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	app.plants, app.journal, app.garden = s.plants, s.journal, s.garden

	app.catalog, err = catalog.Default()
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to load species catalog: %w", err)
	}
	logger.Info("species catalog loaded", "species", app.catalog.Len())

	app.gardenService, err = service.NewGardenService(
		app.db,
		app.plants,
		app.journal,
		app.garden,
		app.catalog,
		placement.NewEngine(cfg.Garden.PlacementAttempts, nil),
		service.Layout{ItemSize: cfg.Garden.ItemSize, MinGap: cfg.Garden.MinGap},
		logger,
	)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create garden service: %w", err)
	}

	app.journalService, err = service.NewJournalService(app.db, app.plants, app.journal, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create journal service: %w", err)
	}

	if err := app.setupTips(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// setupTips builds the generator, cache, worker pool and tip service.
func (app *application) setupTips(ctx context.Context) error {
	generator, err := newGenerator(ctx, app.config.LLM, app.logger)
	if err != nil {
		return err
	}

	metrics, err := tips.NewMetrics(app.registry)
	if err != nil {
		return err
	}

	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: app.config.Task.WorkerCount,
		QueueSize:   app.config.Task.QueueSize,
	}, app.logger)
	app.taskRunner.SetErrorHandler(func(t task.Task, err error) {
		// Failures are already logged and counted by the cache.
		app.logger.Debug("background task failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
	})
	app.taskRunner.Start()

	cache := tips.NewCache(app.catalog, generator, app.logger, metrics)
	checker := tips.NewDeviceChecker(app.config.Tips.DeviceOverride, app.config.Tips.DeviceMinMajor)
	app.tipService = tips.NewService(app.catalog, cache, checker, app.taskRunner, app.logger, metrics)
	return nil
}

// openDatabase opens the configured database driver.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Driver {
	case migrations.DriverSQLite:
		db, err = sqlite.Open(ctx, cfg.URL)
	case migrations.DriverPostgres:
		db, err = postgres.Open(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("%w: %q", migrations.ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	return db, nil
}

// newStores builds the store implementations for driver.
func newStores(driver string, db *sql.DB, logger *slog.Logger) (stores, error) {
	switch driver {
	case migrations.DriverSQLite:
		return stores{
			plants:  sqlite.NewPlantStore(db, logger),
			journal: sqlite.NewJournalStore(db, logger),
			garden:  sqlite.NewGardenStore(db, logger),
		}, nil
	case migrations.DriverPostgres:
		return stores{
			plants:  postgres.NewPostgresPlantStore(db, logger),
			journal: postgres.NewPostgresJournalStore(db, logger),
			garden:  postgres.NewPostgresGardenStore(db, logger),
		}, nil
	default:
		return stores{}, fmt.Errorf("%w: %q", migrations.ErrUnknownDriver, driver)
	}
}

// newGenerator returns the Gemini generator, or nil when no API key is
// configured. A nil generator leaves every species on its static tips.
func newGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.TipGenerator, error) {
	if !cfg.Enabled() {
		logger.Info("no Gemini API key configured, serving static tips only")
		return nil, nil
	}

	g, err := gemini.NewGeminiGenerator(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tip generator: %w", err)
	}
	logger.Info("tip generator initialized", "model", cfg.ModelName)
	return g, nil
}

// generateTips runs one synchronous generation for species and returns the
// generated tips, or the static tips when generation is unavailable or fails.
func generateTips(ctx context.Context, cfg *config.Config, logger *slog.Logger, species string) ([]string, error) {
	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load species catalog: %w", err)
	}
	entry, ok := cat.Lookup(species)
	if !ok {
		return nil, fmt.Errorf("%w: %q", tips.ErrSpeciesUnknown, species)
	}

	generator, err := newGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	cache := tips.NewCache(cat, generator, logger, nil)
	if err := cache.Ensure(ctx, species); err != nil {
		if !errors.Is(err, tips.ErrGeneratorUnavailable) {
			logger.Warn("tip generation failed, printing static tips", "species", entry.Name, "error", err)
		}
		return tips.Static(entry), nil
	}
	return cache.Tips(species), nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
