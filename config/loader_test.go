package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFileSystem serves env files from memory.
type fakeFileSystem struct {
	t        *testing.T
	envFiles map[string]map[string]string
	loadErr  error
}

func (f *fakeFileSystem) Exists(path string) bool {
	if _, ok := f.envFiles[path]; ok {
		return true
	}
	_, err := os.Stat(path)
	return err == nil
}

func (f *fakeFileSystem) LoadEnv(path string) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	for k, v := range f.envFiles[path] {
		if os.Getenv(k) == "" {
			f.t.Setenv(k, v)
		}
	}
	return nil
}

// clearEnv blanks every variable Load reads. Viper treats empty variables
// as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		ConfigFileEnv,
		"INJECTOR_LOG_LEVEL",
		"INJECTOR_LOG_FORMAT",
		"INJECTOR_LOG_OUTPUT",
		"INJECTOR_METRICS_ENABLED",
		"INJECTOR_METRICS_NAMESPACE",
		"INJECTOR_TRACING_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(WithFileSystem(&fakeFileSystem{t: t}), WithEnvFile(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("INJECTOR_LOG_LEVEL", "debug")
	t.Setenv("INJECTOR_METRICS_ENABLED", "true")
	t.Setenv("INJECTOR_METRICS_NAMESPACE", "app")
	t.Setenv("INJECTOR_TRACING_ENABLED", "true")

	cfg, err := Load(WithFileSystem(&fakeFileSystem{t: t}), WithEnvFile(""))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "app", cfg.Metrics.Namespace)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "injector.yaml", `
log:
  level: warn
  format: console
metrics:
  enabled: true
  namespace: fromfile
`)

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(WithFileSystem(&fakeFileSystem{t: t}), WithEnvFile(""), WithConfigFile(path))
		require.NoError(t, err)

		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "stderr", cfg.Log.Output)
		assert.True(t, cfg.Metrics.Enabled)
		assert.Equal(t, "fromfile", cfg.Metrics.Namespace)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("INJECTOR_LOG_LEVEL", "error")

		cfg, err := Load(WithFileSystem(&fakeFileSystem{t: t}), WithEnvFile(""), WithConfigFile(path))
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	t.Run("named by environment", func(t *testing.T) {
		t.Setenv(ConfigFileEnv, path)

		cfg, err := Load(WithFileSystem(&fakeFileSystem{t: t}), WithEnvFile(""))
		require.NoError(t, err)
		assert.Equal(t, "fromfile", cfg.Metrics.Namespace)
	})

	t.Run("missing file", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "absent.yaml")

		_, err := Load(WithFileSystem(&fakeFileSystem{t: t}), WithEnvFile(""), WithConfigFile(missing))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)

	t.Run("values are loaded", func(t *testing.T) {
		fs := &fakeFileSystem{t: t, envFiles: map[string]map[string]string{
			"test.env": {"INJECTOR_LOG_FORMAT": "console"},
		}}

		cfg, err := Load(WithFileSystem(fs), WithEnvFile("test.env"))
		require.NoError(t, err)
		assert.Equal(t, "console", cfg.Log.Format)
	})

	t.Run("process environment wins", func(t *testing.T) {
		t.Setenv("INJECTOR_LOG_FORMAT", "json")
		fs := &fakeFileSystem{t: t, envFiles: map[string]map[string]string{
			"test.env": {"INJECTOR_LOG_FORMAT": "console"},
		}}

		cfg, err := Load(WithFileSystem(fs), WithEnvFile("test.env"))
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("load error", func(t *testing.T) {
		fs := &fakeFileSystem{
			t:        t,
			envFiles: map[string]map[string]string{"test.env": nil},
			loadErr:  errors.New("unreadable"),
		}

		_, err := Load(WithFileSystem(fs), WithEnvFile("test.env"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unreadable")
	})

	t.Run("absent file is skipped", func(t *testing.T) {
		_, err := Load(WithFileSystem(&fakeFileSystem{t: t}), WithEnvFile("absent.env"))
		assert.NoError(t, err)
	})
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("INJECTOR_LOG_LEVEL", "loud")

	_, err := Load(WithFileSystem(&fakeFileSystem{t: t}), WithEnvFile(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level must be one of")
}
