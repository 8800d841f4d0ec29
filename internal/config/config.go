// Package config loads runtime settings from flags, the environment and an
// optional .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	minSecretLen = 32
	devSecret    = "skyshop-dev-session-secret-not-for-prod"
)

type Config struct {
	HTTPAddr        string        `name:"http-addr" help:"HTTP listen address." default:":8080" env:"HTTP_ADDR"`
	LogLevel        string        `name:"log-level" help:"Log level." default:"info" enum:"debug,info,warn,error" env:"LOG_LEVEL"`
	ShutdownTimeout time.Duration `name:"shutdown-timeout" help:"Graceful shutdown budget." default:"10s" env:"SHUTDOWN_TIMEOUT"`
	DevMode         bool          `name:"dev" help:"Allow insecure development defaults." env:"DEV_MODE"`

	SessionSecret string        `name:"session-secret" help:"HMAC secret for session cookies (min 32 chars)." env:"SESSION_SECRET"`
	SessionTTL    time.Duration `name:"session-ttl" help:"Session and idle basket lifetime." default:"24h" env:"SESSION_TTL"`
	SecureCookies bool          `name:"secure-cookies" help:"Mark session cookies HTTPS-only." env:"SECURE_COOKIES"`
	TrustProxy    bool          `name:"trust-proxy" help:"Take client IPs from X-Forwarded-For / X-Real-IP (only behind a trusted proxy)." env:"TRUST_PROXY"`

	BasketBackend string `name:"basket-backend" help:"Where session baskets live." default:"memory" enum:"memory,redis" env:"BASKET_BACKEND"`
	RedisAddr     string `name:"redis-addr" help:"Redis address for the redis basket backend." default:"localhost:6379" env:"REDIS_ADDR"`

	SeedDemoData       bool  `name:"seed-demo-data" help:"Seed the catalog with demo products and articles." default:"true" negatable:"" env:"SEED_DEMO_DATA"`
	FixedPrice         int64 `name:"fixed-price" help:"Price of fixed-price products, in minor units." default:"100" env:"FIXED_PRICE"`
	ProductCreateLimit int   `name:"product-create-limit" help:"Product creations per client IP per minute, 0 disables." default:"30" env:"PRODUCT_CREATE_LIMIT"`

	MetricsEnabled bool   `name:"metrics" help:"Expose /metrics." default:"true" negatable:"" env:"METRICS_ENABLED"`
	MetricsToken   string `name:"metrics-token" help:"Bearer token required for /metrics." env:"METRICS_TOKEN"`
}

// Load reads the .env file named by ENV_FILE (default ".env") if it exists,
// then parses args on top of the environment.
func Load(args []string) (Config, error) {
	if err := loadDotEnv(envFile()); err != nil {
		return Config{}, err
	}

	var cfg Config
	parser, err := kong.New(&cfg,
		kong.Name("skyshop"),
		kong.Description("Online shop backend: catalog, search and session baskets."),
	)
	if err != nil {
		return Config{}, err
	}
	if _, err := parser.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" && c.DevMode {
		c.SessionSecret = devSecret
	}
	if len(c.SessionSecret) < minSecretLen {
		return fmt.Errorf("SESSION_SECRET is required and must be at least %d chars", minSecretLen)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.FixedPrice <= 0 {
		return errors.New("FIXED_PRICE must be positive")
	}
	if c.ProductCreateLimit < 0 {
		return errors.New("PRODUCT_CREATE_LIMIT must not be negative")
	}
	return nil
}

func envFile() string {
	if v := os.Getenv("ENV_FILE"); v != "" {
		return v
	}
	return ".env"
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}
