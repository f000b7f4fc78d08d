package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/junioryono/injector"
)

// Registration registers something on a registry.
type Registration func(*injector.Registry) error

// Singleton adapts RegisterSingleton to a Registration.
func Singleton[T any](factory func(*injector.Resolution) (T, error), opts ...injector.RegisterOption) Registration {
	return func(r *injector.Registry) error {
		return injector.RegisterSingleton(r, factory, opts...)
	}
}

// Transient adapts RegisterTransient to a Registration.
func Transient[T any](factory func(*injector.Resolution) (T, error), opts ...injector.RegisterOption) Registration {
	return func(r *injector.Registry) error {
		return injector.RegisterTransient(r, factory, opts...)
	}
}

// RegistryBuilder helps build registries for testing
type RegistryBuilder struct {
	t             *testing.T
	options       []injector.Option
	registrations []Registration
	validate      bool
}

// NewRegistryBuilder creates a new registry builder
func NewRegistryBuilder(t *testing.T) *RegistryBuilder {
	return &RegistryBuilder{t: t}
}

// WithOptions adds registry options
func (b *RegistryBuilder) WithOptions(opts ...injector.Option) *RegistryBuilder {
	b.options = append(b.options, opts...)
	return b
}

// With adds registrations
func (b *RegistryBuilder) With(registrations ...Registration) *RegistryBuilder {
	b.registrations = append(b.registrations, registrations...)
	return b
}

// WithValidation runs ValidateFull after registering
func (b *RegistryBuilder) WithValidation() *RegistryBuilder {
	b.validate = true
	return b
}

// Build creates the registry, failing the test on any error
func (b *RegistryBuilder) Build() *injector.Registry {
	b.t.Helper()

	r := injector.New(b.options...)
	for _, reg := range b.registrations {
		require.NoError(b.t, reg(r), "registration failed")
	}
	if b.validate {
		require.NoError(b.t, r.ValidateFull(), "validation failed")
	}
	return r
}
