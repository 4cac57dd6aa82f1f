package registry

import "sort"

// Registry is the set of unique literal values collected during one run.
// It is not safe for concurrent use.
type Registry struct {
	values map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{values: make(map[string]struct{})}
}

// Add records value. Adding a value twice is a no-op.
func (r *Registry) Add(value string) {
	r.values[value] = struct{}{}
}

// Contains reports whether value was added.
func (r *Registry) Contains(value string) bool {
	_, ok := r.values[value]
	return ok
}

// Len returns the number of unique values.
func (r *Registry) Len() int {
	return len(r.values)
}

// Values returns a fresh snapshot sorted by byte order, which for UTF-8 is
// code-point order and independent of locale.
func (r *Registry) Values() []string {
	out := make([]string, 0, len(r.values))
	for v := range r.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
