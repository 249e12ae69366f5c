// Package sqlite provides the on-device SQLite implementations of the
// storage interfaces defined in the internal/store package, using the pure
// Go modernc.org/sqlite driver.
//
// Timestamps are stored as INTEGER unix nanoseconds in UTC so ordering by
// column value matches chronological order.
package sqlite
