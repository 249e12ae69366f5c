// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in the internal/store package, for deployments that
// share one garden database between several API instances.
//
// Connections use the pgx database/sql driver so the same store.DBTX and
// store.RunInTransaction plumbing serves both SQL backends.
package postgres
