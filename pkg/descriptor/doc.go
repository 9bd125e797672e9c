// Package descriptor materializes raw dataset mappings into validated
// Descriptor values.
//
// The builder overlays registry-level defaults onto each dataset's own
// fields, applies built-in defaults, coerces and validates every field, and
// normalizes the exclusion hierarchy. Validation errors are collected per
// dataset and never abort sibling datasets; the registry loader decides how
// to surface them.
//
// A built Descriptor is immutable and fully resolved: no directive nodes,
// no open merge state, every field independently valid. The downstream
// epoching pipeline consumes descriptors without re-validating.
package descriptor
