package injector

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/injector/config"
	"github.com/junioryono/injector/internal/logging"
)

func TestNewConfigured(t *testing.T) {
	t.Run("creation is silent at the default level", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.Default()

		r := newConfigured(cfg, logging.NewWithWriter(cfg.Log, "injector", &buf))
		require.NotNil(t, r)
		assert.Empty(t, buf.String())
	})

	t.Run("creation is logged at debug", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := config.Default()
		cfg.Log.Level = "debug"

		r := newConfigured(cfg, logging.NewWithWriter(cfg.Log, "injector", &buf))
		assert.Contains(t, buf.String(), `"message":"global registry created"`)
		assert.Contains(t, buf.String(), r.ID())
	})

	t.Run("metrics stay off by default", func(t *testing.T) {
		r := newConfigured(config.Default(), logging.NewWithWriter(config.LogConfig{}, "injector", &bytes.Buffer{}))
		assert.Nil(t, r.metrics)
	})
}
