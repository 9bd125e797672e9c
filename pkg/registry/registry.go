package registry

import (
	"neuroconf-hq/neuroconf/pkg/descriptor"
	"neuroconf-hq/neuroconf/pkg/document"
)

// NamedDescriptor pairs a dataset's registry name with its descriptor.
type NamedDescriptor struct {
	Name       string
	Descriptor *descriptor.Descriptor
}

// Registry is the resolved, named set of dataset descriptors plus the
// top-level passthrough extras. It is immutable after construction; the
// only mutation point is the loader that builds it.
type Registry struct {
	order       []string
	descriptors map[string]*descriptor.Descriptor
	extras      []document.Entry
}

// Get returns the descriptor for name.
func (r *Registry) Get(name string) (*descriptor.Descriptor, bool) {
	d, ok := r.descriptors[name]
	return d, ok
}

// All returns every descriptor in document-declaration order.
func (r *Registry) All() []NamedDescriptor {
	out := make([]NamedDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, NamedDescriptor{Name: name, Descriptor: r.descriptors[name]})
	}
	return out
}

// Len returns the number of descriptors.
func (r *Registry) Len() int {
	return len(r.order)
}

// Extra returns the top-level passthrough value for key. Extras are opaque:
// the engine neither validates nor interprets them.
func (r *Registry) Extra(key string) (*document.Node, bool) {
	for _, e := range r.extras {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Extras returns all top-level passthrough entries in declaration order.
func (r *Registry) Extras() []document.Entry {
	out := make([]document.Entry, len(r.extras))
	copy(out, r.extras)
	return out
}
