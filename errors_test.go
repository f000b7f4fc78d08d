package injector_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/injector"
	"github.com/junioryono/injector/internal/testutil"
)

func TestErrors(t *testing.T) {
	svc := injector.SingletonDep[*testutil.TestService]()
	dep := injector.SingletonDep[*testutil.TestDependent]()

	t.Run("DuplicateBindingError", func(t *testing.T) {
		err := injector.DuplicateBindingError{Binding: svc}
		assert.ErrorIs(t, err, injector.ErrDuplicateBinding)
		assert.Equal(t, "duplicate binding: Singleton(*testutil.TestService) is already registered", err.Error())
	})

	t.Run("UnregisteredBindingError suggests the other lifetime", func(t *testing.T) {
		err := injector.UnregisteredBindingError{
			Binding:   injector.TransientDep[*testutil.TestService](),
			Available: []injector.Dependency{svc},
		}
		assert.ErrorIs(t, err, injector.ErrUnregisteredBinding)
		assert.True(t, injector.IsUnregistered(err))
		assert.Contains(t, err.Error(), "unregistered binding: Transient(*testutil.TestService)")
		assert.Contains(t, err.Error(), "is registered as Singleton; request it with GetSingleton")
	})

	t.Run("UnregisteredBindingError suggests similar types", func(t *testing.T) {
		err := injector.UnregisteredBindingError{
			Binding:   injector.SingletonDep[testutil.TestService](),
			Available: []injector.Dependency{svc, injector.SingletonDep[testutil.TransactionLog]()},
		}
		msg := err.Error()
		assert.Contains(t, msg, "Did you mean one of these?")
		assert.Contains(t, msg, "Singleton(*testutil.TestService)")
		assert.NotContains(t, msg, "TransactionLog")
	})

	t.Run("CyclicConstructionError", func(t *testing.T) {
		err := injector.CyclicConstructionError{Path: []injector.Dependency{svc, dep, svc}}
		assert.ErrorIs(t, err, injector.ErrCyclicConstruction)
		assert.True(t, injector.IsCyclic(err))
		assert.Equal(t,
			"cyclic construction: Singleton(*testutil.TestService) -> Singleton(*testutil.TestDependent) -> Singleton(*testutil.TestService)",
			err.Error())
	})

	t.Run("validation error kinds", func(t *testing.T) {
		missing := injector.MissingBindingError{Dependent: dep, Missing: svc}
		cycle := injector.CyclicDependencyError{Path: []injector.Dependency{svc, svc}}

		assert.ErrorIs(t, missing, injector.ErrMissingBinding)
		assert.True(t, injector.IsMissing(missing))
		assert.ErrorIs(t, cycle, injector.ErrCyclicDependency)
		assert.True(t, injector.IsCyclic(cycle))
		assert.False(t, injector.IsCyclic(missing))
	})

	t.Run("ValidationError", func(t *testing.T) {
		missing := injector.MissingBindingError{Dependent: dep, Missing: svc}
		cycle := injector.CyclicDependencyError{Path: []injector.Dependency{dep, dep}}

		single := &injector.ValidationError{Full: true, Errors: []error{missing}}
		assert.Equal(t, "full validation failed: "+missing.Error(), single.Error())

		multi := &injector.ValidationError{Errors: []error{missing, cycle}}
		assert.Contains(t, multi.Error(), "validation failed with 2 errors:")
		assert.Contains(t, multi.Error(), "\n  1. missing binding")
		assert.ErrorIs(t, multi, injector.ErrMissingBinding)
		assert.ErrorIs(t, multi, injector.ErrCyclicDependency)

		var target injector.CyclicDependencyError
		require.True(t, errors.As(multi, &target))
		assert.Equal(t, []injector.Dependency{dep, dep}, target.Path)
	})

	t.Run("RegistrationError", func(t *testing.T) {
		err := injector.RegistrationError{Binding: svc, Cause: injector.ErrFactoryNil}
		assert.ErrorIs(t, err, injector.ErrFactoryNil)
		assert.Equal(t, "failed to register Singleton(*testutil.TestService): factory cannot be nil", err.Error())
	})

	t.Run("FactoryPanicError", func(t *testing.T) {
		err := injector.FactoryPanicError{Binding: svc, Panic: "boom", Stack: []byte("goroutine 1")}
		assert.Contains(t, err.Error(), "factory for Singleton(*testutil.TestService) panicked: boom")
		assert.Contains(t, err.Error(), "Stack trace:\ngoroutine 1")
	})

	t.Run("helpers reject unrelated errors", func(t *testing.T) {
		assert.False(t, injector.IsUnregistered(testutil.ErrTest))
		assert.False(t, injector.IsCyclic(testutil.ErrTest))
		assert.False(t, injector.IsMissing(nil))
	})
}
