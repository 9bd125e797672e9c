// Package resolve expands include directives and deep-merges document
// fragments into a single mapping.
//
// Resolution is a synchronous, deterministic pipeline. Glob matches are
// sorted lexicographically before merging so that two resolutions of the
// same file tree always produce identical output regardless of filesystem
// enumeration order. Cycle detection uses a stack of absolute paths plus a
// hard depth cap.
//
// The merge rule is deliberately small: when both sides of a key hold
// mappings the merge recurses, otherwise the later value wins outright.
// Sequences are replaced wholesale, never concatenated.
package resolve
