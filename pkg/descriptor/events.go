package descriptor

import (
	"fmt"

	"neuroconf-hq/neuroconf/pkg/document"
)

// normalizeEvents turns the two accepted spellings of the events field into
// a label -> code mapping with declaration order preserved.
//
// A sequence of labels is auto-numbered 0..n-1 by position. A mapping of
// label -> code is used verbatim after checking that codes are unique;
// codes need not be contiguous.
func normalizeEvents(n *document.Node) ([]string, map[string]int, []FieldError) {
	switch n.Kind {
	case document.KindSequence:
		labels := make([]string, 0, len(n.Items))
		codes := make(map[string]int, len(n.Items))
		var errs []FieldError
		for i, item := range n.Items {
			label, ok := asString(item)
			if !ok {
				errs = append(errs, FieldError{
					Field:   "events",
					Message: fmt.Sprintf("element %d must be a label string", i),
				})
				continue
			}
			if _, dup := codes[label]; dup {
				errs = append(errs, FieldError{
					Field:   "events",
					Message: fmt.Sprintf("duplicate event label %q", label),
				})
				continue
			}
			codes[label] = i
			labels = append(labels, label)
		}
		return labels, codes, errs

	case document.KindMapping:
		labels := make([]string, 0, len(n.Entries))
		codes := make(map[string]int, len(n.Entries))
		used := make(map[int]string, len(n.Entries))
		var errs []FieldError
		for _, e := range n.Entries {
			code, ok := asInt(e.Value)
			if !ok {
				errs = append(errs, FieldError{
					Field:   "events." + e.Key,
					Message: "event code must be an integer",
				})
				continue
			}
			if prev, dup := used[code]; dup {
				errs = append(errs, FieldError{
					Field:   "events." + e.Key,
					Message: fmt.Sprintf("event code %d already used by %q", code, prev),
				})
				continue
			}
			used[code] = e.Key
			codes[e.Key] = code
			labels = append(labels, e.Key)
		}
		return labels, codes, errs

	case document.KindNull:
		return nil, map[string]int{}, nil

	default:
		return nil, nil, []FieldError{{
			Field:   "events",
			Message: "must be a sequence of labels or a mapping of label to code",
		}}
	}
}
