// Package history records realignment runs in SQLite so reviewers can see
// which clips moved, when, and by how much.
//
// Each run stores its filter, counts, and one row per clip with the old and
// new times, the outcome kind, and the scores. The database lives under the
// configured state directory. Schema changes bump schemaVersion; older
// databases are rejected with ErrSchemaMismatch and must be removed.
package history
