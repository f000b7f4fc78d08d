package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCircularDependency = errors.New("circular dependency")
	ErrMissingDependency  = errors.New("missing dependency")
)

// CircularDependencyError represents a cycle in the declared dependencies.
// Path starts and ends with the same node.
type CircularDependencyError[K Key] struct {
	Path []K
}

func (e CircularDependencyError[K]) Error() string {
	var b strings.Builder
	b.WriteString("circular dependency detected:\n\n")

	for i, node := range e.Path {
		if i == len(e.Path)-1 && len(e.Path) > 1 {
			b.WriteString(fmt.Sprintf("    %s (cycle)\n", node.String()))
			break
		}
		b.WriteString(fmt.Sprintf("    %s\n", node.String()))
		b.WriteString("      ↓\n")
	}

	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Use an interface to break the dependency\n")
	b.WriteString("  • Resolve one side lazily inside a factory instead of declaring it\n")
	b.WriteString("  • Restructure to remove the circular relationship\n")

	return b.String()
}

func (e CircularDependencyError[K]) Is(target error) bool {
	return target == ErrCircularDependency
}

// Contains reports whether k is part of the cycle.
func (e CircularDependencyError[K]) Contains(k K) bool {
	for _, p := range e.Path {
		if p == k {
			return true
		}
	}
	return false
}

// MissingDependencyError represents a declared dependency with no node.
// Root is set when Missing was requested directly as a validation root,
// in which case Dependent equals Missing.
type MissingDependencyError[K Key] struct {
	Dependent K
	Missing   K
	Root      bool
}

func (e MissingDependencyError[K]) Error() string {
	if e.Root {
		return fmt.Sprintf("missing binding: %s is not registered", e.Missing.String())
	}
	return fmt.Sprintf("missing binding: %s depends on %s, which is not registered",
		e.Dependent.String(), e.Missing.String())
}

func (e MissingDependencyError[K]) Is(target error) bool {
	return target == ErrMissingDependency
}
