// Package cache provides the lazily populated, exactly-once instance store
// backing singleton lifetimes.
package cache

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrWaitCycle is returned when waiting for an entry would never end:
	// the entry is being built by the caller itself, or by an owner that is
	// (transitively) waiting on the caller.
	ErrWaitCycle = errors.New("cache: construction waits on itself")

	// ErrAborted is delivered to waiters when the builder panicked.
	ErrAborted = errors.New("cache: construction aborted")
)

// State is the lifecycle state of a key.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Initializing:
		return "Initializing"
	case Ready:
		return "Ready"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// entry is one key's state. done is closed when construction finishes;
// value and err are written before the close and never after.
type entry[V any] struct {
	state State
	owner string
	done  chan struct{}
	value V
	err   error
}

// Cache stores instances by key and guarantees that a builder runs at most
// once per successful construction, even under concurrent first access.
// Failures are never stored.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[V]

	// waits maps an owner to the entry it is blocked on. Edges are dropped
	// when that entry finishes.
	waits map[string]*entry[V]
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*entry[V]),
		waits:   make(map[string]*entry[V]),
	}
}

// Get returns the instance for key if it is Ready.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.state == Ready {
		return e.value, true
	}
	var zero V
	return zero, false
}

// State reports the current state of key.
func (c *Cache[K, V]) State(key K) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		return e.state
	}
	return Uninitialized
}

// Len returns the number of Ready entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, e := range c.entries {
		if e.state == Ready {
			n++
		}
	}
	return n
}

// GetOrInit returns the instance for key, running build to construct it when
// the key is Uninitialized. owner identifies the calling chain of
// construction; it must be unique per chain and stable across nested calls
// of that chain.
//
// Callers that find the key Initializing block until the builder finishes and
// receive its outcome. If build fails or panics the key reverts to
// Uninitialized and the next call starts over.
func (c *Cache[K, V]) GetOrInit(owner string, key K, build func() (V, error)) (V, error) {
	var zero V

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if e.state == Ready {
			c.mu.Unlock()
			return e.value, nil
		}

		if e.owner == owner || c.waitsOn(e.owner, owner) {
			c.mu.Unlock()
			return zero, ErrWaitCycle
		}

		c.waits[owner] = e
		c.mu.Unlock()

		<-e.done

		if e.err != nil {
			return zero, e.err
		}
		return e.value, nil
	}

	e := &entry[V]{
		state: Initializing,
		owner: owner,
		done:  make(chan struct{}),
	}
	c.entries[key] = e
	c.mu.Unlock()

	finished := false
	defer func() {
		if finished {
			return
		}
		c.finish(key, e, zero, ErrAborted)
	}()

	value, err := build()
	finished = true
	c.finish(key, e, value, err)

	if err != nil {
		return zero, err
	}
	return value, nil
}

// finish publishes the outcome of a construction and wakes waiters.
func (c *Cache[K, V]) finish(key K, e *entry[V], value V, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		e.err = err
		if c.entries[key] == e {
			delete(c.entries, key)
		}
		e.state = Uninitialized
	} else {
		e.value = value
		e.state = Ready
	}

	// The builder may request other entries as soon as this returns; nobody
	// is blocked on it any more.
	for owner, awaited := range c.waits {
		if awaited == e {
			delete(c.waits, owner)
		}
	}
	close(e.done)
}

// waitsOn reports whether from is blocked, directly or through other
// owners, on target. Callers hold mu.
func (c *Cache[K, V]) waitsOn(from, target string) bool {
	cur := from
	for range len(c.waits) + 1 {
		awaited, ok := c.waits[cur]
		if !ok || awaited.state != Initializing {
			return false
		}
		if awaited.owner == target {
			return true
		}
		cur = awaited.owner
	}
	return false
}
