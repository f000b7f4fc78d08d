package injector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Option configures a Registry.
type Option interface {
	apply(*options)
}

type options struct {
	logger           zerolog.Logger
	tracerProvider   trace.TracerProvider
	registerer       prometheus.Registerer
	metricsNamespace string
}

func defaultOptions() options {
	return options{
		logger:         zerolog.Nop(),
		tracerProvider: noop.NewTracerProvider(),
	}
}

// optionFunc adapts a function to Option.
type optionFunc func(*options)

func (f optionFunc) apply(opts *options) {
	f(opts)
}

// WithLogger sets the logger used for registration, construction and
// validation events. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return optionFunc(func(opts *options) {
		opts.logger = logger
	})
}

// WithTracerProvider traces every construction with a span from tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return optionFunc(func(opts *options) {
		if tp != nil {
			opts.tracerProvider = tp
		}
	})
}

// WithMetrics registers construction metrics on reg under namespace.
// An empty namespace defaults to "injector".
func WithMetrics(reg prometheus.Registerer, namespace string) Option {
	return optionFunc(func(opts *options) {
		opts.registerer = reg
		opts.metricsNamespace = namespace
	})
}

// RegisterOption configures a single registration.
type RegisterOption interface {
	applyRegister(*registerOptions)
}

type registerOptions struct {
	name         string
	dependencies []Dependency
}

// registerOptionFunc adapts a function to RegisterOption.
type registerOptionFunc func(*registerOptions)

func (f registerOptionFunc) applyRegister(opts *registerOptions) {
	f(opts)
}

// Named registers the provider under a named key, an abstract capability
// on top of the Go type. Consumers request it with GetSingletonNamed or
// GetTransientNamed.
func Named(name string) RegisterOption {
	return registerOptionFunc(func(opts *registerOptions) {
		opts.name = name
	})
}

// DependsOn declares the bindings the factory requests. Declarations are
// only used by validation. Repeated calls accumulate.
func DependsOn(deps ...Dependency) RegisterOption {
	return registerOptionFunc(func(opts *registerOptions) {
		opts.dependencies = append(opts.dependencies, deps...)
	})
}
