// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements several ports through a single database connection:
//
//   - DocumentStore: Ingested document records
//   - HistoryStore: Session-scoped chat turns
//   - VectorIndex: A named collection of chunk embeddings with cosine search
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// The database is stored at <data dir>/docqa.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode;
// read-modify-write document updates and per-session appends are additionally
// serialised in process.
package sqlite
