package injector

import (
	"context"
	"io"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/junioryono/injector/internal/cache"
	"github.com/junioryono/injector/internal/graph"
)

const tracerName = "github.com/junioryono/injector"

// Registry owns the providers and the singleton instances built from them.
//
// Registration and resolution are safe for concurrent use. Registration is
// expected to finish before heavy concurrent resolution begins, but late
// registration is allowed.
type Registry struct {
	id         string
	providers  *providerTable
	singletons *cache.Cache[Dependency, any]

	logger  zerolog.Logger
	tracer  trace.Tracer
	metrics *metrics
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&o)
		}
	}

	id := uuid.NewString()
	logger := o.logger.With().Str("registry", id).Logger()

	m, err := newMetrics(o.registerer, o.metricsNamespace)
	if err != nil {
		logger.Warn().Err(err).Msg("metrics disabled")
	}

	return &Registry{
		id:         id,
		providers:  newProviderTable(),
		singletons: cache.New[Dependency, any](),
		logger:     logger,
		tracer:     o.tracerProvider.Tracer(tracerName),
		metrics:    m,
	}
}

// ID returns the unique identifier of this registry.
func (r *Registry) ID() string {
	return r.id
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return r.providers.len()
}

func (r *Registry) resolution() *Resolution {
	return r.Begin(context.Background())
}

// Begin starts a new chain of construction rooted at ctx. Instances requested
// through the returned Resolution are traced as children of ctx.
func (r *Registry) Begin(ctx context.Context) *Resolution {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Resolution{
		reg:   r,
		ctx:   ctx,
		owner: newChainID(),
	}
}

// ========================================
// Registration
// ========================================

// RegisterSingleton registers factory as the singleton provider of T. The
// factory runs at most once per successful construction; a failed
// construction is retried on the next request.
//
// Dependencies the factory requests should be declared with DependsOn so
// that validation can see them.
func RegisterSingleton[T any](r *Registry, factory func(*Resolution) (T, error), opts ...RegisterOption) error {
	return register(r, Singleton, factory, opts)
}

// RegisterTransient registers factory as the transient provider of T. The
// factory runs on every request.
func RegisterTransient[T any](r *Registry, factory func(*Resolution) (T, error), opts ...RegisterOption) error {
	return register(r, Transient, factory, opts)
}

// MustRegisterSingleton is like RegisterSingleton but panics on error.
func MustRegisterSingleton[T any](r *Registry, factory func(*Resolution) (T, error), opts ...RegisterOption) {
	if err := RegisterSingleton(r, factory, opts...); err != nil {
		panic(err)
	}
}

// MustRegisterTransient is like RegisterTransient but panics on error.
func MustRegisterTransient[T any](r *Registry, factory func(*Resolution) (T, error), opts ...RegisterOption) {
	if err := RegisterTransient(r, factory, opts...); err != nil {
		panic(err)
	}
}

func register[T any](r *Registry, lifetime Lifetime, factory func(*Resolution) (T, error), opts []RegisterOption) error {
	var ro registerOptions
	for _, opt := range opts {
		if opt != nil {
			opt.applyRegister(&ro)
		}
	}

	binding := Dependency{Key: NamedKey[T](ro.name), Lifetime: lifetime}
	if factory == nil {
		return RegistrationError{Binding: binding, Cause: ErrFactoryNil}
	}

	for _, dep := range ro.dependencies {
		if !dep.Lifetime.IsValid() {
			return RegistrationError{Binding: binding, Cause: LifetimeError{Value: dep.Lifetime}}
		}
	}

	p := &provider{
		binding: binding,
		factory: func(res *Resolution) (any, error) {
			v, err := factory(res)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		dependencies: slices.Clone(ro.dependencies),
	}

	if err := r.providers.register(p); err != nil {
		r.logger.Warn().Err(err).Stringer("binding", binding).Msg("registration rejected")
		return err
	}

	r.logger.Debug().
		Stringer("binding", binding).
		Int("dependencies", len(p.dependencies)).
		Msg("registered")
	return nil
}

// ========================================
// Introspection
// ========================================

// RegistrationInfo describes one registered provider.
type RegistrationInfo struct {
	Binding      Dependency
	Dependencies []Dependency

	// Ready is set for singletons whose instance has been built.
	Ready bool
}

// Registrations returns every registered provider ordered by binding.
func (r *Registry) Registrations() []RegistrationInfo {
	providers := r.providers.snapshot()
	infos := make([]RegistrationInfo, len(providers))
	for i, p := range providers {
		infos[i] = RegistrationInfo{
			Binding:      p.binding,
			Dependencies: slices.Clone(p.dependencies),
			Ready:        p.binding.Lifetime == Singleton && r.singletons.State(p.binding) == cache.Ready,
		}
	}
	return infos
}

// WarmUp builds every registered singleton, dependencies first. It stops at
// the first failure. A cycle in the declared dependencies is reported as a
// CyclicDependencyError without running any factory.
func (r *Registry) WarmUp(ctx context.Context) error {
	order, err := r.graph().TopologicalSort()
	if err != nil {
		return err
	}

	res := r.Begin(ctx)
	built := 0
	for _, binding := range order {
		if binding.Lifetime != Singleton {
			continue
		}
		if _, err := res.resolve(binding); err != nil {
			return err
		}
		built++
	}

	r.logger.Debug().Int("singletons", built).Msg("warm-up complete")
	return nil
}

// WriteDOT writes the declared dependency graph in Graphviz DOT format.
// Built singletons are green, pending singletons blue and transients yellow.
// Missing dependencies are drawn with dashed edges.
func (r *Registry) WriteDOT(w io.Writer) error {
	return r.visualizer().WriteDOT(w)
}

// WriteText writes a human-readable summary of the declared dependency
// graph, grouped by depth.
func (r *Registry) WriteText(w io.Writer) error {
	return r.visualizer().WriteText(w)
}

func (r *Registry) visualizer() *graph.Visualizer[Dependency] {
	v := graph.NewVisualizer(r.graph())
	v.Color = func(d Dependency) string {
		switch {
		case d.Lifetime == Transient:
			return "lightyellow"
		case r.singletons.State(d) == cache.Ready:
			return "lightgreen"
		default:
			return "lightblue"
		}
	}
	return v
}
