package main

import (
	"log/slog"
	"time"

	"github.com/fastprodman/smscoins/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"API_PORT" default:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`

	Postgres  config.PostgresConfig
	Auth      config.AuthConfig
	Gateway   config.GatewayConfig
	RateLimit config.RateLimitConfig
	Redis     config.RedisConfig
	Pricing   config.PricingConfig
}
