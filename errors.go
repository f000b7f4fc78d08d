package injector

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/junioryono/injector/internal/graph"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// Match these with errors.Is. Returned errors are always one of the typed
// errors below, never a bare sentinel.

var (
	// Registration errors.
	ErrDuplicateBinding = errors.New("duplicate binding")
	ErrFactoryNil       = errors.New("factory cannot be nil")
	ErrInvalidLifetime  = errors.New("invalid lifetime")

	// Validation errors.
	ErrMissingBinding   = graph.ErrMissingDependency
	ErrCyclicDependency = graph.ErrCircularDependency

	// Resolution errors.
	ErrUnregisteredBinding = errors.New("unregistered binding")
	ErrCyclicConstruction  = errors.New("cyclic construction")
)

var (
	_ error = LifetimeError{}
	_ error = DuplicateBindingError{}
	_ error = MissingBindingError{}
	_ error = CyclicDependencyError{}
	_ error = (*ValidationError)(nil)
	_ error = UnregisteredBindingError{}
	_ error = CyclicConstructionError{}
	_ error = FactoryPanicError{}
	_ error = RegistrationError{}
	_ error = TypeMismatchError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// LifetimeError indicates an invalid lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid lifetime: %v", e.Value)
}

func (e LifetimeError) Is(target error) bool {
	return target == ErrInvalidLifetime
}

// DuplicateBindingError is returned when a key is registered twice under the
// same lifetime.
type DuplicateBindingError struct {
	Binding Dependency
}

func (e DuplicateBindingError) Error() string {
	return fmt.Sprintf("duplicate binding: %s is already registered", e.Binding)
}

func (e DuplicateBindingError) Is(target error) bool {
	return target == ErrDuplicateBinding
}

// MissingBindingError is reported by validation for a declared dependency
// that has no provider.
type MissingBindingError = graph.MissingDependencyError[Dependency]

// CyclicDependencyError is reported by validation for a cycle in the declared
// dependencies. Path starts and ends with the same binding.
type CyclicDependencyError = graph.CircularDependencyError[Dependency]

// ValidationError aggregates every problem found by a validation pass. Each
// problem is a MissingBindingError or a CyclicDependencyError and is
// reachable through errors.As.
type ValidationError struct {
	Full   bool
	Errors []error
}

func (e *ValidationError) Error() string {
	mode := "validation"
	if e.Full {
		mode = "full validation"
	}

	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s failed: %v", mode, e.Errors[0])
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s failed with %d errors:", mode, len(e.Errors)))
	for i, err := range e.Errors {
		b.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
	}
	return b.String()
}

func (e *ValidationError) Unwrap() []error {
	return e.Errors
}

// UnregisteredBindingError is returned when a binding with no provider is
// requested.
type UnregisteredBindingError struct {
	Binding   Dependency
	Available []Dependency // registered bindings, used for suggestions
}

func (e UnregisteredBindingError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("unregistered binding: %s", e.Binding))

	for _, d := range e.Available {
		if d.Key == e.Binding.Key && d.Lifetime != e.Binding.Lifetime {
			b.WriteString(fmt.Sprintf("\n\n%s is registered as %s; request it with Get%s.",
				d.Key, d.Lifetime, d.Lifetime))
			return b.String()
		}
	}

	similar := findSimilarBindings(e.Binding, e.Available)
	if len(similar) > 0 {
		b.WriteString("\n\nDid you mean one of these?\n")
		for _, d := range similar {
			b.WriteString(fmt.Sprintf("  • %s\n", d))
		}
	}

	return b.String()
}

func (e UnregisteredBindingError) Is(target error) bool {
	return target == ErrUnregisteredBinding
}

// findSimilarBindings finds bindings with similar type names using a simple
// substring match.
func findSimilarBindings(target Dependency, available []Dependency) []Dependency {
	if target.Key.Type == nil || len(available) == 0 {
		return nil
	}

	targetName := strings.ToLower(target.Key.Type.String())
	targetShort := strings.ToLower(shortName(target.Key.Type))

	var similar []Dependency
	for _, d := range available {
		if d.Key.Type == nil || d == target {
			continue
		}

		name := strings.ToLower(d.Key.Type.String())
		short := strings.ToLower(shortName(d.Key.Type))
		if d.Key.Type == target.Key.Type ||
			short == targetShort ||
			strings.Contains(name, targetShort) ||
			strings.Contains(targetName, short) {
			similar = append(similar, d)
		}

		if len(similar) >= 5 {
			break
		}
	}

	return similar
}

func shortName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// CyclicConstructionError is returned when a factory, directly or through
// other factories, requests a binding that is still being constructed on
// its own chain. Path starts and ends with the same binding.
type CyclicConstructionError struct {
	Path []Dependency
}

func (e CyclicConstructionError) Error() string {
	parts := make([]string, len(e.Path))
	for i, d := range e.Path {
		parts[i] = d.String()
	}
	return fmt.Sprintf("cyclic construction: %s", strings.Join(parts, " -> "))
}

func (e CyclicConstructionError) Is(target error) bool {
	return target == ErrCyclicConstruction
}

// FactoryPanicError indicates a factory panicked during construction.
// It captures the panic value and stack trace for debugging.
type FactoryPanicError struct {
	Binding Dependency
	Panic   any
	Stack   []byte
}

func (e FactoryPanicError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("factory for %s panicked: %v\n", e.Binding, e.Panic))

	b.WriteString("\nTo resolve this:\n")
	b.WriteString("  • Check for nil pointer dereferences in the factory\n")
	b.WriteString("  • Return an error from the factory instead of panicking\n")

	if len(e.Stack) > 0 {
		b.WriteString("\nStack trace:\n")
		b.Write(e.Stack)
	}

	return b.String()
}

// RegistrationError wraps errors during provider registration.
type RegistrationError struct {
	Binding Dependency
	Cause   error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to register %s: %v", e.Binding, e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a constructed instance does not have the type
// its binding promises.
type TypeMismatchError struct {
	Binding  Dependency
	Expected reflect.Type
	Actual   reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for %s: expected %s, got %s",
		e.Binding, formatType(e.Expected), formatType(e.Actual))
}

func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// ========================================
// Error Helpers
// ========================================

// IsUnregistered reports whether err is caused by a request for a binding
// with no provider.
func IsUnregistered(err error) bool {
	return errors.Is(err, ErrUnregisteredBinding)
}

// IsCyclic reports whether err is caused by a cycle, either declared
// (validation) or encountered during construction.
func IsCyclic(err error) bool {
	return errors.Is(err, ErrCyclicDependency) || errors.Is(err, ErrCyclicConstruction)
}

// IsMissing reports whether err is caused by a declared dependency without a
// provider.
func IsMissing(err error) bool {
	return errors.Is(err, ErrMissingBinding)
}
