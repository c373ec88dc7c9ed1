package cmd

// Registry stores commands in registration order and indexes them by name.
// It does not perform dispatch; callers look up commands and invoke them with
// their own context.
//
// A Registry is not safe for concurrent mutation. Build it fully, then publish
// it (e.g. through an atomic.Pointer) and treat it as read-only.
type Registry[C any] struct {
	name    func(C) string
	ordered []C
	byName  map[string]C
}

// NewRegistry returns an empty registry that keys commands by name(c).
func NewRegistry[C any](name func(C) string) *Registry[C] {
	return &Registry[C]{name: name, byName: make(map[string]C)}
}

// Register appends c. The first command registered under a name keeps it: a
// later duplicate is still listed by All but is not reachable through Get.
// Register reports whether c became the lookup target for its name.
func (r *Registry[C]) Register(c C) bool {
	r.ordered = append(r.ordered, c)
	n := r.name(c)
	if _, taken := r.byName[n]; taken {
		return false
	}
	r.byName[n] = c
	return true
}

// Get returns the command with the given name.
func (r *Registry[C]) Get(name string) (C, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// All returns every registered command in registration order.
func (r *Registry[C]) All() []C {
	return append([]C(nil), r.ordered...)
}

// Len is the number of registered commands, duplicates included.
func (r *Registry[C]) Len() int { return len(r.ordered) }
