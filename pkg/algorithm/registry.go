package algorithm

import (
	"fmt"
	"sort"
)

// Registry is an immutable set of descriptors keyed by id. It is built once at startup and
// passed explicitly to the components that need it.
type Registry struct {
	byID  map[string]Descriptor
	order []string
}

// NewRegistry checks every descriptor and indexes it by id. Duplicate ids are rejected.
func NewRegistry(ds ...Descriptor) (*Registry, error) {
	r := &Registry{byID: make(map[string]Descriptor, len(ds))}
	for _, d := range ds {
		if err := d.Check(); err != nil {
			return nil, err
		}
		if _, exists := r.byID[d.ID]; exists {
			return nil, fmt.Errorf("algorithm %q already registered", d.ID)
		}
		r.byID[d.ID] = d
		r.order = append(r.order, d.ID)
	}
	sort.SliceStable(r.order, func(i, j int) bool {
		a, b := r.byID[r.order[i]], r.byID[r.order[j]]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.ID < b.ID
	})
	return r, nil
}

// MustRegistry is NewRegistry for static catalogs; it panics on a malformed descriptor.
func MustRegistry(ds ...Descriptor) *Registry {
	r, err := NewRegistry(ds...)
	if err != nil {
		panic(err)
	}
	return r
}

// With returns a new registry holding r's descriptors plus ds. r is left untouched.
func (r *Registry) With(ds ...Descriptor) (*Registry, error) {
	all := make([]Descriptor, 0, len(r.order)+len(ds))
	for _, id := range r.order {
		all = append(all, r.byID[id])
	}
	return NewRegistry(append(all, ds...)...)
}

// Lookup returns a descriptor by id.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Len is the number of registered algorithms.
func (r *Registry) Len() int { return len(r.order) }

// List returns descriptors ordered by category, then id.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Categories returns the distinct categories in list order.
func (r *Registry) Categories() []string {
	var out []string
	for _, id := range r.order {
		c := r.byID[id].Category
		if len(out) == 0 || out[len(out)-1] != c {
			out = append(out, c)
		}
	}
	return out
}
