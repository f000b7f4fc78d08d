package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/injector"
)

// AssertSingletonResolvable checks if a singleton can be resolved
func AssertSingletonResolvable[T any](t *testing.T, g injector.Getter) T {
	t.Helper()
	service, err := injector.GetSingleton[T](g)
	require.NoError(t, err, "failed to resolve singleton of type %T", *new(T))
	require.NotNil(t, service, "resolved singleton is nil")
	return service
}

// AssertTransientResolvable checks if a transient can be resolved
func AssertTransientResolvable[T any](t *testing.T, g injector.Getter) T {
	t.Helper()
	service, err := injector.GetTransient[T](g)
	require.NoError(t, err, "failed to resolve transient of type %T", *new(T))
	require.NotNil(t, service, "resolved transient is nil")
	return service
}

// AssertUnregistered checks that resolving T under lifetime fails with an
// unregistered binding error and no value.
func AssertUnregistered[T comparable](t *testing.T, g injector.Getter, lifetime injector.Lifetime) {
	t.Helper()

	var (
		service T
		err     error
	)
	switch lifetime {
	case injector.Singleton:
		service, err = injector.GetSingleton[T](g)
	default:
		service, err = injector.GetTransient[T](g)
	}

	var zero T
	assert.Error(t, err)
	assert.True(t, injector.IsUnregistered(err), "expected unregistered binding error, got: %v", err)
	assert.Equal(t, zero, service, "no value may be returned with an error")
}

// AssertErrorType checks if an error is of a specific type
func AssertErrorType[T error](t *testing.T, err error, msgAndArgs ...any) T {
	t.Helper()
	var target T
	assert.ErrorAs(t, err, &target, msgAndArgs...)
	return target
}

// AssertCyclic checks if an error is a cycle error of either kind
func AssertCyclic(t *testing.T, err error) {
	t.Helper()
	assert.Error(t, err)
	assert.True(t, injector.IsCyclic(err), "expected cyclic error, got: %v", err)
}

// AssertSameInstance verifies two services are the same instance
func AssertSameInstance(t *testing.T, expected, actual any, msgAndArgs ...any) {
	t.Helper()
	assert.Same(t, expected, actual, msgAndArgs...)
}

// AssertDifferentInstances verifies two services are different instances
func AssertDifferentInstances(t *testing.T, first, second any, msgAndArgs ...any) {
	t.Helper()
	assert.NotSame(t, first, second, msgAndArgs...)
}
