// Package sqlite provides a SQLite-based implementation of the project and
// document stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Both stores share a single database connection:
//
//   - ProjectStore: project persistence
//   - DocumentStore: document and chunk persistence
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// Deleting a project cascades to its documents, and deleting a document
// cascades to its chunks.
//
// # Data Location
//
// By default, the database is stored at ~/.scopeiq/data/scopeiq.db
package sqlite
