// Package store persists pipeline runs as JSON documents in SQLite.
//
// Each run is one row: a handful of indexed columns for listing and
// filtering, and a document column holding the full run state. Partial
// updates address fields inside the document by dotted path, so a stage
// can record its outcome without rewriting the whole run.
package store
