// Package config loads the settings of the process-wide registry from an
// optional YAML file, an optional .env file and INJECTOR_* environment
// variables, in increasing order of precedence.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output" validate:"oneof=stdout stderr"`
}

// MetricsConfig controls Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace" validate:"max=64"`
}

// TracingConfig controls OpenTelemetry spans.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Namespace: "injector",
		},
	}
}

// ApplyDefaults fills empty fields with their defaults.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Log.Output == "" {
		c.Log.Output = d.Log.Output
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their configuration key.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return fld.Tag.Get("mapstructure")
		})
	})
	return validate
}

// Validate checks every field and reports all violations at once.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("config: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fieldPath(e)+" "+formatValidationError(e))
	}
	return fmt.Errorf("config: %s", strings.Join(messages, "; "))
}

// fieldPath turns "Config.log.level" into "log.level".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
