package injector

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const defaultMetricsNamespace = "injector"

// metrics holds the registry's Prometheus collectors. A nil *metrics records
// nothing.
type metrics struct {
	constructions *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	validations   *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, namespace string) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}
	if namespace == "" {
		namespace = defaultMetricsNamespace
	}

	constructions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "constructions_total",
			Help:      "Total number of factory invocations",
		},
		[]string{"binding", "lifetime", "outcome"},
	)

	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "construction_duration_seconds",
			Help:      "Factory invocation duration in seconds, dependencies included",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"lifetime"},
	)

	validations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Total number of validation passes",
		},
		[]string{"mode", "outcome"},
	)

	m := &metrics{}
	var err error
	if m.constructions, err = registerCollector(reg, constructions); err != nil {
		return nil, err
	}
	if m.duration, err = registerCollector(reg, duration); err != nil {
		return nil, err
	}
	if m.validations, err = registerCollector(reg, validations); err != nil {
		return nil, err
	}
	return m, nil
}

// registerCollector adds c to reg, reusing an identical collector that is
// already registered.
func registerCollector[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observeConstruction(binding Dependency, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	m.constructions.WithLabelValues(binding.Key.String(), binding.Lifetime.String(), outcome(err)).Inc()
	m.duration.WithLabelValues(binding.Lifetime.String()).Observe(elapsed.Seconds())
}

func (m *metrics) observeValidation(full bool, err error) {
	if m == nil {
		return
	}

	mode := "narrow"
	if full {
		mode = "full"
	}
	m.validations.WithLabelValues(mode, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
