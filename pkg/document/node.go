package document

// Kind identifies the shape of a Node.
type Kind string

const (
	KindMapping   Kind = "mapping"
	KindSequence  Kind = "sequence"
	KindScalar    Kind = "scalar"
	KindNull      Kind = "null"
	KindDirective Kind = "directive"
)

// Node is one value in the untyped document tree. Exactly one of the
// shape-specific fields is populated, selected by Kind.
type Node struct {
	Kind Kind

	// Entries holds mapping entries in declaration order (Kind == KindMapping).
	Entries []Entry

	// Items holds sequence elements (Kind == KindSequence).
	Items []*Node

	// Value holds a scalar as string, int, float64 or bool (Kind == KindScalar).
	Value any

	// Directive holds the unexpanded include (Kind == KindDirective).
	Directive *Directive

	// Line and Column locate the node in its source file (1-based).
	Line   int
	Column int
}

// Entry is one key/value pair of a mapping node.
type Entry struct {
	Key   string
	Value *Node
}

// NewMapping returns an empty mapping node.
func NewMapping() *Node {
	return &Node{Kind: KindMapping}
}

// NewScalar returns a scalar node holding v.
func NewScalar(v any) *Node {
	return &Node{Kind: KindScalar, Value: v}
}

// IsMapping reports whether the node is a mapping.
func (n *Node) IsMapping() bool {
	return n != nil && n.Kind == KindMapping
}

// IsNull reports whether the node is an explicit null.
func (n *Node) IsNull() bool {
	return n != nil && n.Kind == KindNull
}

// Get returns the value for key in a mapping node, or nil if the key is
// absent or the node is not a mapping.
func (n *Node) Get(key string) *Node {
	if !n.IsMapping() {
		return nil
	}
	for _, e := range n.Entries {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Has reports whether a mapping node contains key.
func (n *Node) Has(key string) bool {
	return n.Get(key) != nil
}

// Set replaces the value for key, or appends a new entry if the key is
// absent. It panics if the node is not a mapping.
func (n *Node) Set(key string, value *Node) {
	if !n.IsMapping() {
		panic("document: Set on non-mapping node")
	}
	for i, e := range n.Entries {
		if e.Key == key {
			n.Entries[i].Value = value
			return
		}
	}
	n.Entries = append(n.Entries, Entry{Key: key, Value: value})
}

// Keys returns the mapping keys in declaration order.
func (n *Node) Keys() []string {
	if !n.IsMapping() {
		return nil
	}
	keys := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:   n.Kind,
		Value:  n.Value,
		Line:   n.Line,
		Column: n.Column,
	}
	if n.Directive != nil {
		d := *n.Directive
		out.Directive = &d
	}
	if n.Entries != nil {
		out.Entries = make([]Entry, len(n.Entries))
		for i, e := range n.Entries {
			out.Entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
		}
	}
	if n.Items != nil {
		out.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			out.Items[i] = item.Clone()
		}
	}
	return out
}

// Interface converts the tree to plain Go values: map[string]any for
// mappings (declaration order is lost), []any for sequences, the scalar
// value itself, and nil for null. Directive nodes convert to their raw
// target string; a resolved tree contains none.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindMapping:
		m := make(map[string]any, len(n.Entries))
		for _, e := range n.Entries {
			m[e.Key] = e.Value.Interface()
		}
		return m
	case KindSequence:
		s := make([]any, len(n.Items))
		for i, item := range n.Items {
			s[i] = item.Interface()
		}
		return s
	case KindScalar:
		return n.Value
	case KindDirective:
		return n.Directive.Target
	default:
		return nil
	}
}

// Equal reports structural equality of two trees. Mapping entry order is
// significant, matching the determinism contract of resolution.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind {
		return false
	}
	switch n.Kind {
	case KindMapping:
		if len(n.Entries) != len(other.Entries) {
			return false
		}
		for i, e := range n.Entries {
			o := other.Entries[i]
			if e.Key != o.Key || !e.Value.Equal(o.Value) {
				return false
			}
		}
		return true
	case KindSequence:
		if len(n.Items) != len(other.Items) {
			return false
		}
		for i, item := range n.Items {
			if !item.Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case KindScalar:
		return n.Value == other.Value
	case KindDirective:
		return n.Directive.Kind == other.Directive.Kind &&
			n.Directive.Target == other.Directive.Target
	default:
		return true
	}
}
