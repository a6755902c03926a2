// Package history persists saved clip orders and per-folder presentation
// preferences in a SQLite database under the state directory.
//
// Folders are keyed by absolute path. Each recorded order keeps the name list
// as JSON; older entries beyond the configured limit are pruned on insert.
// The schema is versioned; a database written by a different version is
// rejected with ErrSchemaMismatch rather than migrated.
package history
