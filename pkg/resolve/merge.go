package resolve

import "neuroconf-hq/neuroconf/pkg/document"

// Merge deep-merges overlay onto base and returns a new tree; neither
// input is modified. The rule set is total:
//
//   - mapping x mapping: merge key-by-key, recursing per key. Base entry
//     order is preserved; keys new in the overlay append in overlay order.
//   - anything else: the overlay value replaces the base value outright.
//     Sequences, scalars, nulls and type-mismatched pairs are never
//     combined element-wise.
//
// Merging a tree with itself yields an equal tree, which makes repeated
// resolution of an already-merged document idempotent.
func Merge(base, overlay *document.Node) *document.Node {
	if overlay == nil {
		return base.Clone()
	}
	if base == nil {
		return overlay.Clone()
	}
	if base.Kind != document.KindMapping || overlay.Kind != document.KindMapping {
		return overlay.Clone()
	}

	out := &document.Node{
		Kind:   document.KindMapping,
		Line:   base.Line,
		Column: base.Column,
	}
	for _, e := range base.Entries {
		if over := overlay.Get(e.Key); over != nil {
			out.Entries = append(out.Entries, document.Entry{
				Key:   e.Key,
				Value: Merge(e.Value, over),
			})
		} else {
			out.Entries = append(out.Entries, document.Entry{
				Key:   e.Key,
				Value: e.Value.Clone(),
			})
		}
	}
	for _, e := range overlay.Entries {
		if !out.Has(e.Key) {
			out.Entries = append(out.Entries, document.Entry{
				Key:   e.Key,
				Value: e.Value.Clone(),
			})
		}
	}
	return out
}

// MergeAll folds an ordered sequence of fragments into one mapping,
// first to last, so later fragments override earlier ones.
func MergeAll(fragments ...*document.Node) *document.Node {
	merged := document.NewMapping()
	for _, f := range fragments {
		merged = Merge(merged, f)
	}
	return merged
}
