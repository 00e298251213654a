package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentora/rentora/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Run("parses env into struct", func(t *testing.T) {
		type testConfig struct {
			Name string `env:"CONFIG_TEST_NAME" envDefault:"fallback"`
			Port int    `env:"CONFIG_TEST_PORT" envDefault:"8080"`
		}

		t.Setenv("CONFIG_TEST_NAME", "rentora")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "rentora", cfg.Name)
		assert.Equal(t, 8080, cfg.Port)
	})

	t.Run("caches per type", func(t *testing.T) {
		type cachedConfig struct {
			Value string `env:"CONFIG_TEST_CACHED" envDefault:"first"`
		}

		var first cachedConfig
		require.NoError(t, config.Load(&first))

		// A changed environment must not affect an already-loaded type.
		t.Setenv("CONFIG_TEST_CACHED", "second")

		var second cachedConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first.Value, second.Value)
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		var cfg *struct{}
		err := config.Load(cfg)
		require.ErrorIs(t, err, config.ErrNilPointer)
	})
}
