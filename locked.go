package injector

import "sync"

// Locked guards a value that is mutated after construction. The registry
// shares singletons by reference and never serializes calls on them; a
// singleton whose state changes after it is built registers a *Locked[T]
// instead of a bare T.
//
//	injector.RegisterSingleton(r, func(*injector.Resolution) (*injector.Locked[Stats], error) {
//	    return injector.NewLocked(Stats{}), nil
//	})
type Locked[T any] struct {
	mu    sync.RWMutex
	value T
}

// NewLocked returns a guard holding value.
func NewLocked[T any](value T) *Locked[T] {
	return &Locked[T]{value: value}
}

// Read calls fn with the value under a read lock.
func (l *Locked[T]) Read(fn func(T)) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fn(l.value)
}

// Write calls fn with a pointer to the value under the write lock.
func (l *Locked[T]) Write(fn func(*T)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&l.value)
}

// Load returns a copy of the value.
func (l *Locked[T]) Load() T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value
}

// Store replaces the value.
func (l *Locked[T]) Store(value T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = value
}
