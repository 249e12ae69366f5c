package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/sprout/internal/domain"
	"github.com/phrazzld/sprout/internal/platform/migrations"
	"github.com/phrazzld/sprout/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// newTestDB returns a migrated private in-memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, migrations.DriverSQLite, db, nil))
	return db
}

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mustPlant(t *testing.T, name string, created time.Time) *domain.Plant {
	t.Helper()
	p, err := domain.NewPlant(name, "Basil", "basil", created)
	require.NoError(t, err)
	return p
}
