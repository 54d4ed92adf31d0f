package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

type Config struct {
	// Host defaults to loopback: the console API acts with the logged-in
	// user's rights and has no per-client credentials.
	Host      string `env:"HOST,       default=127.0.0.1"`
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Backend  BackendConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Realtime RealtimeConfig
	Locale   LocaleConfig

	DispatchWorkers int `env:"DISPATCH_WORKERS, default=2"`
}

type BackendConfig struct {
	APIBaseURL string        `env:"API_BASE_URL, default=http://localhost:8000/api"`
	WSURL      string        `env:"WS_URL,       default=ws://localhost:8000/ws/orders/"`
	Timeout    time.Duration `env:"HTTP_TIMEOUT, default=15s"`
}

type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND, default=file"`
	Path    string `env:"STORAGE_PATH,    default=.workshop-console/state.json"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Prefix   string `env:"REDIS_PREFIX,   default=workshop-console"`
}

type RealtimeConfig struct {
	MaxAttempts int           `env:"REALTIME_MAX_ATTEMPTS, default=5"`
	BaseDelay   time.Duration `env:"REALTIME_BASE_DELAY,   default=3s"`
}

type LocaleConfig struct {
	DefaultLanguage string `env:"DEFAULT_LANGUAGE, default=en"`
	Dir             string `env:"I18N_DIR"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageFile, StorageRedis:
	default:
		return fmt.Errorf("load config: STORAGE_BACKEND must be %q or %q, got %q", StorageFile, StorageRedis, c.Storage.Backend)
	}
	if c.Realtime.MaxAttempts < 1 {
		return fmt.Errorf("load config: REALTIME_MAX_ATTEMPTS must be at least 1")
	}
	return nil
}
