// Package document provides the untyped tree representation of a parsed
// configuration document.
//
// A document is parsed into a tree of Node values with five kinds: mapping,
// sequence, scalar, null, and directive. Mappings preserve declaration order,
// which downstream consumers rely on for deterministic output.
//
// The package recognizes the custom !include tag in mapping-value position
// and classifies it into one of three directive kinds at parse time:
//
//   - SingleInclude: one explicit relative path to another YAML document
//   - GlobInclude:   a glob pattern matching zero or more YAML documents
//   - OpaqueInclude: a path with a non-YAML extension, surfaced as raw bytes
//
// Directive expansion itself is performed by the resolve package; this
// package only produces the unresolved intermediate form.
package document
