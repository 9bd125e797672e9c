package descriptor

import (
	"fmt"

	"neuroconf-hq/neuroconf/pkg/document"
)

// Coercion helpers over the untyped tree. Each returns false when the node
// does not hold a value of the requested shape; the caller turns that into
// a FieldError with the field path.

func asString(n *document.Node) (string, bool) {
	if n == nil || n.Kind != document.KindScalar {
		return "", false
	}
	switch v := n.Value.(type) {
	case string:
		return v, true
	case int:
		return fmt.Sprintf("%d", v), true
	case float64:
		return fmt.Sprintf("%g", v), true
	default:
		return "", false
	}
}

func asFloat(n *document.Node) (float64, bool) {
	if n == nil || n.Kind != document.KindScalar {
		return 0, false
	}
	switch v := n.Value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func asInt(n *document.Node) (int, bool) {
	if n == nil || n.Kind != document.KindScalar {
		return 0, false
	}
	switch v := n.Value.(type) {
	case int:
		return v, true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

func asBool(n *document.Node) (bool, bool) {
	if n == nil || n.Kind != document.KindScalar {
		return false, false
	}
	v, ok := n.Value.(bool)
	return v, ok
}

// asStringSlice accepts a sequence of scalars or a lone scalar promoted to
// a one-element slice, matching how configs write single-valued lists.
func asStringSlice(n *document.Node) ([]string, bool) {
	if n == nil {
		return nil, false
	}
	if n.Kind == document.KindScalar {
		s, ok := asString(n)
		if !ok {
			return nil, false
		}
		return []string{s}, true
	}
	if n.Kind != document.KindSequence {
		return nil, false
	}
	out := make([]string, 0, len(n.Items))
	for _, item := range n.Items {
		s, ok := asString(item)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// asSpan converts a two-element sequence into a Span. A null element is an
// explicit open bound. The second return distinguishes "not a span shape"
// from "a span with invalid bounds", which the caller reports separately.
func asSpan(n *document.Node) (*Span, bool) {
	if n == nil || n.Kind != document.KindSequence || len(n.Items) != 2 {
		return nil, false
	}
	span := &Span{}
	if !n.Items[0].IsNull() {
		lo, ok := asFloat(n.Items[0])
		if !ok {
			return nil, false
		}
		span.Lo = &lo
	}
	if !n.Items[1].IsNull() {
		hi, ok := asFloat(n.Items[1])
		if !ok {
			return nil, false
		}
		span.Hi = &hi
	}
	return span, true
}
