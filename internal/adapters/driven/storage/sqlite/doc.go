// Package sqlite provides the SQLite-backed plan archive.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. The archive is
// append-only: plans are inserted once under their content-addressed
// plan id and never updated or deleted. Before any plan is committed,
// the adapter verifies the full serialize-deserialize-reconstruct round
// trip so that only recoverable plans enter the database.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in
// the migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.irrigo/data/plans.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
