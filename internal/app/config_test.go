package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.NotEmpty(t, cfg.TokenPath)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SISFARM_ENV", "production")
	t.Setenv("SISFARM_API_URL", "https://farm.example.com")
	t.Setenv("SISFARM_PAGE_SIZE", "25")
	t.Setenv("SISFARM_TOKEN_PATH", "/tmp/sisfarm-token")
	t.Setenv("SISFARM_REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://farm.example.com", cfg.APIBaseURL)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, "/tmp/sisfarm-token", cfg.TokenPath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadConfigRejectsBadPageSize(t *testing.T) {
	t.Setenv("SISFARM_PAGE_SIZE", "-1")

	_, err := LoadConfig()

	assert.Error(t, err)
}
