package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedded embed.FS

// Supported driver names, matching config.DatabaseConfig.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Commands accepted by Run.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnknownDriver is returned for a driver with no embedded migrations.
var ErrUnknownDriver = errors.New("no migrations for driver")

// ErrUnknownCommand is returned by Run for an unsupported command.
var ErrUnknownCommand = errors.New("unknown migration command")

// FS returns the migration files for driver, rooted at the driver directory.
func FS(driver string) (fs.FS, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
		return fs.Sub(embedded, driver)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func dialect(driver string) (goose.Dialect, error) {
	switch driver {
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	case DriverPostgres:
		return goose.DialectPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// NewProvider builds a goose provider over the embedded files for driver.
// Providers carry their own state, so concurrent callers with different
// databases do not interfere.
func NewProvider(driver string, db *sql.DB) (*goose.Provider, error) {
	d, err := dialect(driver)
	if err != nil {
		return nil, err
	}
	fsys, err := FS(driver)
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(d, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Up applies every pending migration.
func Up(ctx context.Context, driver string, db *sql.DB, logger *slog.Logger) error {
	return Run(ctx, driver, db, CommandUp, logger)
}

// Run executes a migration command against db.
func Run(ctx context.Context, driver string, db *sql.DB, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "migrations", "driver", driver, "command", command)

	provider, err := NewProvider(driver, db)
	if err != nil {
		return err
	}

	start := time.Now()
	log.Info("starting migration operation")

	switch command {
	case CommandUp:
		results, err := provider.Up(ctx)
		logResults(log, results)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
	case CommandDown:
		result, err := provider.Down(ctx)
		if result != nil {
			logResults(log, []*goose.MigrationResult{result})
		}
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
	case CommandReset:
		results, err := provider.DownTo(ctx, 0)
		logResults(log, results)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
		for _, s := range statuses {
			log.Info("migration status",
				"version", s.Source.Version,
				"file", s.Source.Path,
				"state", string(s.State),
				"applied_at", s.AppliedAt)
		}
	case CommandVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("migration command '%s' failed: %w", command, err)
		}
		log.Info("current database migration version", "version", version)
	default:
		return fmt.Errorf("%w: %s (expected up, down, reset, status, or version)", ErrUnknownCommand, command)
	}

	log.Info("migration operation completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func logResults(log *slog.Logger, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		attrs := []any{
			"version", r.Source.Version,
			"file", r.Source.Path,
			"direction", r.Direction,
			"duration_ms", r.Duration.Milliseconds(),
		}
		if r.Error != nil {
			log.Error("migration failed", append(attrs, "error", r.Error)...)
			continue
		}
		log.Info("migration applied", attrs...)
	}
}
