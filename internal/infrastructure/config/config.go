package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTP   HTTPConfig
	Ledger LedgerConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Log    LogConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// LedgerConfig points at the upstream expense-ledger API.
type LedgerConfig struct {
	BaseURL string        `env:"LEDGER_API_BASE_URL,required,notEmpty"`
	Timeout time.Duration `env:"LEDGER_API_TIMEOUT" envDefault:"10s"`
}

type RedisConfig struct {
	URL             string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	BalanceCacheTTL time.Duration `env:"BALANCE_CACHE_TTL" envDefault:"15s"`
	IdempotencyTTL  time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`
}

type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads configuration from the environment. A .env file, when present,
// seeds variables that are not already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}
