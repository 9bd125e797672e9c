package descriptor

import (
	"fmt"

	"neuroconf-hq/neuroconf/pkg/document"
)

// parseExcludePeople normalizes a list of subject identifiers into a
// membership set.
func parseExcludePeople(n *document.Node, norm IDNormalizer) (map[string]bool, []FieldError) {
	ids, ok := asStringSlice(n)
	if !ok {
		return nil, []FieldError{{
			Field:   "exclude_people",
			Message: "must be a sequence of subject identifiers",
		}}
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[norm(id)] = true
	}
	return out, nil
}

// parseExclude normalizes the subject -> session/run -> ranges hierarchy.
//
// A null leaf at any level marks the whole subtree excluded. A list leaf
// marks partial exclusion over [start, end] spans, where start may be an
// explicit null meaning "from recording start". An ancestor marked fully
// excluded makes descendant entries redundant but not erroneous.
func parseExclude(n *document.Node, norm IDNormalizer) (map[string]*subjectExclusion, []FieldError) {
	if !n.IsMapping() {
		return nil, []FieldError{{
			Field:   "exclude",
			Message: "must be a mapping of subject to session/run exclusions",
		}}
	}

	out := make(map[string]*subjectExclusion, len(n.Entries))
	var errs []FieldError
	for _, subjectEntry := range n.Entries {
		subject := norm(subjectEntry.Key)
		value := subjectEntry.Value

		if value.IsNull() {
			out[subject] = &subjectExclusion{all: true}
			continue
		}
		if !value.IsMapping() {
			errs = append(errs, FieldError{
				Field:   "exclude." + subjectEntry.Key,
				Message: "must be null (exclude subject) or a mapping of session/run exclusions",
			})
			continue
		}

		sub := &subjectExclusion{nodes: make(map[string]*nodeExclusion, len(value.Entries))}
		for _, nodeEntry := range value.Entries {
			field := fmt.Sprintf("exclude.%s.%s", subjectEntry.Key, nodeEntry.Key)
			node, nodeErrs := parseExcludeNode(nodeEntry.Value, field)
			errs = append(errs, nodeErrs...)
			if node != nil {
				sub.nodes[norm(nodeEntry.Key)] = node
			}
		}
		out[subject] = sub
	}
	return out, errs
}

// parseExcludeNode handles the session/run leaf: null for full exclusion,
// or a list of [start, end] spans for partial exclusion.
func parseExcludeNode(n *document.Node, field string) (*nodeExclusion, []FieldError) {
	if n.IsNull() {
		return &nodeExclusion{all: true}, nil
	}
	if n.Kind != document.KindSequence {
		return nil, []FieldError{{
			Field:   field,
			Message: "must be null (exclude entirely) or a list of [start, end] ranges",
		}}
	}

	node := &nodeExclusion{}
	var errs []FieldError
	for i, item := range n.Items {
		span, ok := asSpan(item)
		if !ok {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("range %d must be a [start, end] pair", i),
			})
			continue
		}
		if span.Lo != nil && span.Hi != nil && *span.Lo >= *span.Hi {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("range %d: start %g must be before end %g", i, *span.Lo, *span.Hi),
			})
			continue
		}
		node.spans = append(node.spans, *span)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return node, nil
}
