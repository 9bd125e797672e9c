// Package logging provides structured logging for the resolution engine.
//
// It wraps log/slog with level and format parsing so the CLI and library
// consumers can configure logging from plain strings. Components take a
// *slog.Logger and scope it with a "component" attribute; this package
// builds the root logger they derive from.
package logging
