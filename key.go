package injector

import (
	"fmt"
	"reflect"
)

// Key identifies a requested capability.
//
// Type is the Go type handed to consumers. For interface types this is the
// abstract capability; Name optionally refines it with a stable tag so that
// several providers can offer the same Go type under different
// capabilities. Two keys are distinct when either field differs.
type Key struct {
	Type reflect.Type
	Name string
}

// KeyOf returns the key for T.
//
//	injector.KeyOf[*Database]()         // concrete type identity
//	injector.KeyOf[CreditCardProcessor]() // interface identity
func KeyOf[T any]() Key {
	return Key{Type: reflect.TypeFor[T]()}
}

// NamedKey returns the key for T tagged with name.
func NamedKey[T any](name string) Key {
	return Key{Type: reflect.TypeFor[T](), Name: name}
}

// String returns the key as "type" or "type[name]".
func (k Key) String() string {
	typ := "<nil>"
	if k.Type != nil {
		typ = k.Type.String()
	}
	if k.Name != "" {
		return fmt.Sprintf("%s[%s]", typ, k.Name)
	}
	return typ
}

// Dependency is a key paired with the lifetime it is requested under. It is
// both the identity of a registered provider and the unit of a declared
// dependency: the same key may be registered once as a singleton and once
// as a transient.
type Dependency struct {
	Key      Key
	Lifetime Lifetime
}

// SingletonDep declares a dependency on the singleton provider of T.
func SingletonDep[T any]() Dependency {
	return Dependency{Key: KeyOf[T](), Lifetime: Singleton}
}

// TransientDep declares a dependency on the transient provider of T.
func TransientDep[T any]() Dependency {
	return Dependency{Key: KeyOf[T](), Lifetime: Transient}
}

// Named returns a copy of d tagged with name.
func (d Dependency) Named(name string) Dependency {
	d.Key.Name = name
	return d
}

// String returns the dependency as "Lifetime(key)".
func (d Dependency) String() string {
	return fmt.Sprintf("%s(%s)", d.Lifetime, d.Key)
}
