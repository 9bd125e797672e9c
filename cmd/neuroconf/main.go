// Neuroconf resolves declarative EEG dataset configuration trees into a
// flat, validated registry of dataset descriptors.
//
// Configuration documents are YAML with three extended !include forms:
// single-file inclusion, glob-pattern inclusion merging many files, and
// opaque inclusion of non-YAML payloads. Resolution expands every include,
// deep-merges fragments in document order, and validates each dataset
// entry.
//
// Usage:
//
//	# Resolve a configuration tree and print the flattened registry
//	neuroconf resolve datasets.yml
//
//	# Validate a tree; exit nonzero if any dataset fails validation
//	neuroconf lint datasets.yml
//
//	# Re-resolve on every change to the tree
//	neuroconf watch datasets.yml
//
//	# List recent resolution runs from the audit trail
//	neuroconf runs --audit-db runs.db
//
//	# Show version information
//	neuroconf version
package main

func main() {
	Execute()
}
