package migrations_test

import (
	"context"
	"testing"

	"github.com/phrazzld/sprout/internal/platform/migrations"
	"github.com/phrazzld/sprout/internal/platform/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableNames(t *testing.T, run func(string) (int, error)) map[string]int {
	t.Helper()
	out := map[string]int{}
	for _, name := range []string{"plants", "journals", "journal_entries", "garden_settings"} {
		n, err := run(name)
		require.NoError(t, err)
		out[name] = n
	}
	return out
}

func TestRun_SQLiteUpDownReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	countTable := func(name string) (int, error) {
		var n int
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
		return n, err
	}

	require.NoError(t, migrations.Up(ctx, migrations.DriverSQLite, db, nil))
	for name, n := range tableNames(t, countTable) {
		assert.Equal(t, 1, n, "table %s should exist after up", name)
	}

	// Up is idempotent.
	require.NoError(t, migrations.Up(ctx, migrations.DriverSQLite, db, nil))

	provider, err := migrations.NewProvider(migrations.DriverSQLite, db)
	require.NoError(t, err)
	version, err := provider.GetDBVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	require.NoError(t, migrations.Run(ctx, migrations.DriverSQLite, db, migrations.CommandStatus, nil))
	require.NoError(t, migrations.Run(ctx, migrations.DriverSQLite, db, migrations.CommandVersion, nil))

	require.NoError(t, migrations.Run(ctx, migrations.DriverSQLite, db, migrations.CommandDown, nil))
	n, err := countTable("garden_settings")
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, migrations.Run(ctx, migrations.DriverSQLite, db, migrations.CommandReset, nil))
	for name, n := range tableNames(t, countTable) {
		assert.Zero(t, n, "table %s should be dropped after reset", name)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = migrations.Run(ctx, "mysql", db, migrations.CommandUp, nil)
	assert.ErrorIs(t, err, migrations.ErrUnknownDriver)

	err = migrations.Run(ctx, migrations.DriverSQLite, db, "sideways", nil)
	assert.ErrorIs(t, err, migrations.ErrUnknownCommand)
}

func TestFS_ContainsBothDrivers(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{migrations.DriverSQLite, migrations.DriverPostgres} {
		fsys, err := migrations.FS(driver)
		require.NoError(t, err)
		data, err := fsys.Open("00001_create_plants.sql")
		require.NoError(t, err)
		_ = data.Close()
	}
}
