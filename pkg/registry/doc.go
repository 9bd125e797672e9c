// Package registry assembles resolved dataset descriptors into the
// top-level configuration registry and orchestrates the full resolution
// pipeline: parse, expand includes, merge, build descriptors, assemble.
//
// A Result is immutable once built. Reloading (explicitly, via the file
// watcher, or on a refresh schedule) re-runs the whole pipeline and
// produces a new Result rather than mutating in place. A validation
// failure in one dataset entry is recovered locally: the entry is omitted
// and surfaced in Result.Skipped, while root-document parse and include
// errors abort the run entirely.
package registry
