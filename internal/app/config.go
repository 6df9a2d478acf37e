package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the client.
type Config struct {
	AppEnv string `envconfig:"SISFARM_ENV" default:"development"`

	APIBaseURL string        `envconfig:"SISFARM_API_URL" default:"http://localhost:8080"`
	APITimeout time.Duration `envconfig:"SISFARM_API_TIMEOUT" default:"15s"`

	PageSize int `envconfig:"SISFARM_PAGE_SIZE" default:"10"`

	TokenPath string        `envconfig:"SISFARM_TOKEN_PATH"`
	CacheTTL  time.Duration `envconfig:"SISFARM_CACHE_TTL" default:"5m"`

	// RedisAddr, when set, backs the entity cache with Redis so repeated
	// invocations share warm entries. Empty means in-process memory.
	RedisAddr string `envconfig:"SISFARM_REDIS_ADDR"`

	LogFormat string `envconfig:"SISFARM_LOG_FORMAT" default:"pretty"`
}

// LoadConfig reads configuration from environment variables, honoring a
// local .env file when present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", cfg.PageSize)
	}
	if cfg.TokenPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve token path: %w", err)
		}
		cfg.TokenPath = filepath.Join(dir, "sisfarm", "token")
	}
	return &cfg, nil
}

// IsProduction returns true when the client targets a production backend.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
