package injector

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/junioryono/injector/internal/cache"
)

// Getter is anything instances can be requested from: a *Registry or the
// *Resolution handed to a factory.
type Getter interface {
	resolution() *Resolution
}

var (
	_ Getter = (*Registry)(nil)
	_ Getter = (*Resolution)(nil)
)

// Resolution is one chain of construction. A factory receives the
// Resolution it runs under and requests its own dependencies through it, so
// the chain can see a binding being requested while it is still being
// built.
//
// A Resolution must not be retained after the factory returns or shared
// with other goroutines.
type Resolution struct {
	reg   *Registry
	ctx   context.Context
	owner string
	stack []Dependency
}

func (r *Resolution) resolution() *Resolution {
	return r
}

// Context returns the context of the chain. When tracing is enabled it
// carries the span of the construction in progress.
func (r *Resolution) Context() context.Context {
	return r.ctx
}

// Path returns the bindings currently being constructed on this chain,
// outermost first.
func (r *Resolution) Path() []Dependency {
	return slices.Clone(r.stack)
}

// resolve returns an instance for binding.
func (r *Resolution) resolve(binding Dependency) (any, error) {
	if i := slices.Index(r.stack, binding); i >= 0 {
		path := append(slices.Clone(r.stack[i:]), binding)
		return nil, CyclicConstructionError{Path: path}
	}

	p, ok := r.reg.providers.lookup(binding)
	if !ok {
		return nil, UnregisteredBindingError{
			Binding:   binding,
			Available: r.reg.providers.bindings(),
		}
	}

	if binding.Lifetime == Transient {
		return r.construct(p)
	}

	instance, err := r.reg.singletons.GetOrInit(r.owner, binding, func() (any, error) {
		return r.construct(p)
	})
	if errors.Is(err, cache.ErrWaitCycle) {
		path := append(slices.Clone(r.stack), binding)
		return nil, CyclicConstructionError{Path: path}
	}
	return instance, err
}

// construct invokes the factory of p on a child of r.
func (r *Resolution) construct(p *provider) (instance any, err error) {
	reg := r.reg

	ctx, span := reg.tracer.Start(r.ctx, "injector.construct",
		trace.WithAttributes(
			attribute.String("injector.binding", p.binding.Key.String()),
			attribute.String("injector.lifetime", p.binding.Lifetime.String()),
			attribute.Int("injector.depth", len(r.stack)),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = FactoryPanicError{
				Binding: p.binding,
				Panic:   rec,
				Stack:   debug.Stack(),
			}
		}

		elapsed := time.Since(start)
		reg.metrics.observeConstruction(p.binding, elapsed, err)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "construction failed")
			reg.logger.Warn().
				Err(err).
				Stringer("binding", p.binding).
				Str("chain", r.owner).
				Dur("elapsed", elapsed).
				Msg("construction failed")
			return
		}

		reg.logger.Debug().
			Stringer("binding", p.binding).
			Str("chain", r.owner).
			Dur("elapsed", elapsed).
			Msg("constructed")
	}()

	child := &Resolution{
		reg:   reg,
		ctx:   ctx,
		owner: r.owner,
		stack: append(slices.Clip(r.stack), p.binding),
	}
	return p.factory(child)
}

// ========================================
// Typed resolution
// ========================================

// GetSingleton returns the shared instance of T, constructing it on first
// request. Every caller receives the same instance.
func GetSingleton[T any](g Getter) (T, error) {
	return get[T](g, SingletonDep[T]())
}

// GetSingletonNamed returns the shared instance of T registered under name.
func GetSingletonNamed[T any](g Getter, name string) (T, error) {
	return get[T](g, SingletonDep[T]().Named(name))
}

// GetTransient returns a new instance of T owned by the caller.
func GetTransient[T any](g Getter) (T, error) {
	return get[T](g, TransientDep[T]())
}

// GetTransientNamed returns a new instance of T registered under name.
func GetTransientNamed[T any](g Getter, name string) (T, error) {
	return get[T](g, TransientDep[T]().Named(name))
}

// MustGetSingleton is like GetSingleton but panics on error.
func MustGetSingleton[T any](g Getter) T {
	v, err := GetSingleton[T](g)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve singleton: %v", err))
	}
	return v
}

// MustGetTransient is like GetTransient but panics on error.
func MustGetTransient[T any](g Getter) T {
	v, err := GetTransient[T](g)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve transient: %v", err))
	}
	return v
}

func get[T any](g Getter, binding Dependency) (T, error) {
	var zero T

	instance, err := g.resolution().resolve(binding)
	if err != nil {
		return zero, err
	}

	// A factory for an interface type may legitimately return nil.
	if instance == nil {
		return zero, nil
	}

	v, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Binding:  binding,
			Expected: reflect.TypeFor[T](),
			Actual:   reflect.TypeOf(instance),
		}
	}
	return v, nil
}

func newChainID() string {
	return uuid.NewString()
}
