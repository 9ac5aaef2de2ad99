package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8081"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// TrustProxy enables X-Forwarded-For for client addressing. Only set it
	// when a proxy in front of the gateway overwrites the header.
	TrustProxy bool `env:"TRUST_PROXY, default=false"`

	Upstream UpstreamConfig
	Session  SessionConfig
	Activity ActivityConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type UpstreamConfig struct {
	BaseURL string        `env:"UPSTREAM_URL,     default=http://localhost:8080"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT, default=10s"`
}

type SessionConfig struct {
	CookieSecret string        `env:"COOKIE_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL,   default=24h"`
	LoginRPM     int           `env:"LOGIN_RPM,     default=10"`
}

type ActivityConfig struct {
	Workers       int    `env:"ACTIVITY_WORKERS,        default=4"`
	RetentionDays int    `env:"ACTIVITY_RETENTION_DAYS, default=30"`
	SweepSchedule string `env:"ACTIVITY_SWEEP_SCHEDULE, default=0 3 * * *"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=board_gateway"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
