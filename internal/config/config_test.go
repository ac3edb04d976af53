package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Staffjoy/mobius-assignment/internal/config"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		old, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			}
		})
	}
}

func TestLoadDefaultsToProdWhenEnvUnset(t *testing.T) {
	clearEnv(t, "ENV", "LOG_LEVEL", "SYSLOG", "THREADS", "KILL_ON_ERROR")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Syslog)
	assert.Equal(t, 16, cfg.Threads)
	assert.True(t, cfg.KillOnError)
}

func TestLoadAppliesTestEnvironmentDefaults(t *testing.T) {
	clearEnv(t, "LOG_LEVEL", "SYSLOG", "THREADS", "KILL_ON_ERROR")
	os.Setenv("ENV", "test")
	t.Cleanup(func() { os.Unsetenv("ENV") })

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Syslog)
	assert.Equal(t, 6, cfg.Threads)
	assert.False(t, cfg.KillOnError)
}

func TestLoadExplicitEnvVarOverridesPerEnvironmentDefault(t *testing.T) {
	clearEnv(t, "THREADS")
	os.Setenv("ENV", "test")
	os.Setenv("THREADS", "32")
	t.Cleanup(func() {
		os.Unsetenv("ENV")
		os.Unsetenv("THREADS")
	})

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Threads)
}

func TestLoadDefaultsPreserveLegacyWorkerQuirkFlags(t *testing.T) {
	clearEnv(t, "ENV", "DOUBLE_DECREMENT_EXISTING_SHIFT_HOURS", "STRICT_MIN_MAX_CLAMP")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.DoubleDecrementExistingShiftHours)
	assert.False(t, cfg.StrictMinMaxClamp)
}
