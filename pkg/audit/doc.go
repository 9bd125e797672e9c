// Package audit persists a trail of resolution runs to SQLite.
//
// Each run is one append-only row: run ID, root document, duration, the
// dataset names built and the (name, error) pairs skipped. The trail lets
// experiment pipelines answer "which configuration did run X resolve to"
// long after the configuration files have changed.
//
// The store uses the pure-Go modernc.org/sqlite driver with WAL mode
// enabled, so concurrent readers never block the writer.
package audit
