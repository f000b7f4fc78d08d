package injector_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/injector"
)

func TestLifetime(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		tests := []struct {
			lifetime injector.Lifetime
			expected string
		}{
			{injector.Singleton, "Singleton"},
			{injector.Transient, "Transient"},
			{injector.Lifetime(999), "Unknown(999)"},
		}

		for _, tt := range tests {
			assert.Equal(t, tt.expected, tt.lifetime.String())
		}
	})

	t.Run("IsValid", func(t *testing.T) {
		assert.True(t, injector.Singleton.IsValid())
		assert.True(t, injector.Transient.IsValid())
		assert.False(t, injector.Lifetime(-1).IsValid())
		assert.False(t, injector.Lifetime(2).IsValid())
	})

	t.Run("text round trip", func(t *testing.T) {
		text, err := injector.Transient.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "Transient", string(text))

		var l injector.Lifetime
		require.NoError(t, l.UnmarshalText([]byte("singleton")))
		assert.Equal(t, injector.Singleton, l)
	})

	t.Run("invalid text", func(t *testing.T) {
		var l injector.Lifetime
		err := l.UnmarshalText([]byte("Scoped"))
		require.Error(t, err)
		assert.ErrorIs(t, err, injector.ErrInvalidLifetime)
		assert.Contains(t, err.Error(), "invalid lifetime: Scoped")

		_, err = injector.Lifetime(7).MarshalText()
		assert.ErrorIs(t, err, injector.ErrInvalidLifetime)
	})

	t.Run("JSON", func(t *testing.T) {
		type config struct {
			Lifetime injector.Lifetime `json:"lifetime"`
		}

		data, err := json.Marshal(config{Lifetime: injector.Transient})
		require.NoError(t, err)
		assert.JSONEq(t, `{"lifetime":"Transient"}`, string(data))

		var c config
		require.NoError(t, json.Unmarshal([]byte(`{"lifetime":"Singleton"}`), &c))
		assert.Equal(t, injector.Singleton, c.Lifetime)

		assert.Error(t, json.Unmarshal([]byte(`{"lifetime":1}`), &c))
	})
}
