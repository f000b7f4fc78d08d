package injector

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/junioryono/injector/config"
	"github.com/junioryono/injector/internal/logging"
)

// global holds the process-wide registry. It is built on first access.
var global = sync.OnceValue(newGlobal)

// Global returns the process-wide registry. The first call builds it from
// config.Load; every call returns the same instance. Concurrent first calls
// block until it is ready.
//
// The first call loads a .env file from the working directory, if present,
// into the process environment; variables that are already set are kept.
// An invalid configuration does not prevent the registry from being built:
// defaults are used and the problem is logged.
func Global() *Registry {
	return global()
}

func newGlobal() *Registry {
	cfg, loadErr := config.Load()
	if loadErr != nil {
		cfg = config.Default()
	}

	logger := logging.New(cfg.Log, "injector")
	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("invalid configuration, using defaults")
	}
	return newConfigured(cfg, logger)
}

// newConfigured builds a registry with the observability cfg enables.
func newConfigured(cfg config.Config, logger zerolog.Logger) *Registry {
	opts := []Option{WithLogger(logger)}
	if cfg.Metrics.Enabled {
		opts = append(opts, WithMetrics(prometheus.DefaultRegisterer, cfg.Metrics.Namespace))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, WithTracerProvider(otel.GetTracerProvider()))
	}

	r := New(opts...)
	logger.Debug().
		Str("registry", r.ID()).
		Bool("metrics", cfg.Metrics.Enabled).
		Bool("tracing", cfg.Tracing.Enabled).
		Msg("global registry created")
	return r
}
