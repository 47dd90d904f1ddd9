package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the runtime configuration, populated from the environment.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	GinMode   string `env:"GIN_MODE" envDefault:"release"`
	DataDir   string `env:"DATA_DIR" envDefault:"./data"`
	OutputDir string `env:"OUTPUT_DIR" envDefault:"./output"`

	// Anthropic access is optional; without a key the generator runs on
	// the deterministic fallback.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL"`

	// Redis is optional; without an address rate limiting degrades to the
	// in-memory limiter.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	IPRateLimitPerMin       int `env:"IP_RATE_LIMIT_PER_MIN" envDefault:"60"`
	GenerateRateLimitPerMin int `env:"GENERATE_RATE_LIMIT_PER_MIN" envDefault:"5"`

	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	MaxGeneratePerRequest int `env:"MAX_GENERATE_PER_REQUEST" envDefault:"10"`
}

// Load reads configuration from the environment, honoring a local .env
// file when present.
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
