// Package sqlite stores resources and mapping groups in one SQLite file,
// ~/.shiftmap/data/shiftmap.db by default, using the pure Go
// modernc.org/sqlite driver.
//
// Schema changes are numbered .up.sql/.down.sql pairs under migrations/,
// applied on open. Timestamps are INTEGER Unix nanoseconds so that the
// compare-and-swap on a mapping group's updated_at matches exactly.
// Group members live in their own table with a position column that
// preserves insertion order.
//
// The database runs in WAL mode and every mapping write happens inside a
// transaction, so a Store is safe for concurrent use.
package sqlite
