package injector

import (
	"cmp"
	"slices"
	"sync"
)

// provider pairs a binding with its factory and declared dependencies.
// dependencies are only read by validation; resolution follows whatever the
// factory requests.
type provider struct {
	binding      Dependency
	factory      func(*Resolution) (any, error)
	dependencies []Dependency
}

// providerTable maps bindings to providers. Reads are concurrent-safe and
// may overlap late registration.
type providerTable struct {
	mu        sync.RWMutex
	providers map[Dependency]*provider
}

func newProviderTable() *providerTable {
	return &providerTable{
		providers: make(map[Dependency]*provider),
	}
}

// register inserts p. A binding that is already present is left untouched
// and reported as a DuplicateBindingError.
func (t *providerTable) register(p *provider) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.providers[p.binding]; exists {
		return DuplicateBindingError{Binding: p.binding}
	}

	t.providers[p.binding] = p
	return nil
}

// lookup returns the provider for binding.
func (t *providerTable) lookup(binding Dependency) (*provider, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.providers[binding]
	return p, ok
}

// len returns the number of registered providers.
func (t *providerTable) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.providers)
}

// snapshot returns all providers ordered by binding.
func (t *providerTable) snapshot() []*provider {
	t.mu.RLock()
	out := make([]*provider, 0, len(t.providers))
	for _, p := range t.providers {
		out = append(out, p)
	}
	t.mu.RUnlock()

	slices.SortFunc(out, func(a, b *provider) int {
		return compareBindings(a.binding, b.binding)
	})
	return out
}

// bindings returns every registered binding ordered by binding.
func (t *providerTable) bindings() []Dependency {
	providers := t.snapshot()
	out := make([]Dependency, len(providers))
	for i, p := range providers {
		out[i] = p.binding
	}
	return out
}

func compareBindings(a, b Dependency) int {
	return cmp.Or(
		cmp.Compare(a.Key.String(), b.Key.String()),
		cmp.Compare(a.Lifetime, b.Lifetime),
	)
}
