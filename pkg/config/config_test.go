package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, time.Hour, cfg.Curriculum.CacheTTL)
	assert.Equal(t, 44, cfg.Curriculum.DefaultTestCount)
	assert.Equal(t, 48, cfg.Weakness.DefaultThreshold)
	assert.Equal(t, 30, cfg.Weakness.MinThreshold)
	assert.Equal(t, 55, cfg.Weakness.MaxThreshold)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CURRICULUM_CACHE_TTL", "15m")
	t.Setenv("WEAKNESS_DEFAULT_THRESHOLD", "45")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("TRACING_SAMPLE_RATIO", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Curriculum.CacheTTL)
	assert.Equal(t, 45, cfg.Weakness.DefaultThreshold)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoadCacheCanBeDisabled(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENABLE_CACHE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadRejectsInvertedThresholdBounds(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WEAKNESS_THRESHOLD_MIN", "60")

	_, err := Load()
	require.Error(t, err)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("bogus", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}
