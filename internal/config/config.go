package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

// AuthConfig configures verification of access tokens issued by the
// identity provider.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
	Audience  string `env:"AUTH_JWT_AUDIENCE" default:"authenticated"`
	AdminRole string `env:"AUTH_ADMIN_ROLE" default:"admin"`
}

type GatewayConfig struct {
	URL     string        `env:"SMS_GATEWAY_URL"`
	APIKey  string        `env:"SMS_GATEWAY_API_KEY"`
	Timeout time.Duration `env:"SMS_GATEWAY_TIMEOUT" default:"30s"`
}

type RateLimitConfig struct {
	Backend  string        `env:"RATE_LIMIT_BACKEND" default:"memory"`
	Max      int           `env:"RATE_LIMIT_MAX" default:"10"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" default:"60s"`
	Capacity int           `env:"RATE_LIMIT_CAPACITY" default:"100000"`
}

// RedisConfig is only read when RateLimitConfig.Backend is "redis".
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD" default:""`
	DB       int    `env:"REDIS_DB" default:"0"`
}

type PricingConfig struct {
	DefaultCoins int64 `env:"PRICING_DEFAULT_COINS" default:"3"`
}
