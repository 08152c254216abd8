// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
)

var logger = loggo.GetLogger("retail.config")

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port string

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	JWTSecret          string
	TokenTTL           time.Duration
	SessionIdleTimeout time.Duration

	RedisAddr       string
	LoginRateLimit  int
	RateLimitWindow time.Duration

	OTLPEndpoint string
	ServiceName  string

	LogConfig string

	AdminLogin    string
	AdminPassword string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Warningf(".env file not found, relying on system env")
	}

	var err error
	cfg := &Config{
		Port:            getEnv("PORT", "3000"),
		DBDriver:        getEnv("DB_DRIVER", DriverPostgres),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getEnv("SQLITE_PATH", "retail.db"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RateLimitWindow: time.Minute,
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:     getEnv("SERVICE_NAME", "go-retail-store"),
		LogConfig:       getEnv("LOG_CONFIG", "<root>=INFO"),
		AdminLogin:      getEnv("ADMIN_LOGIN", "gerente"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "gerente123"),
	}

	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout, err = getDuration("SESSION_IDLE_TIMEOUT", 0); err != nil {
		return nil, err
	}

	limit, err := strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "5"))
	if err != nil || limit < 0 {
		return nil, errors.NotValidf("LOGIN_RATE_LIMIT %q", os.Getenv("LOGIN_RATE_LIMIT"))
	}
	cfg.LoginRateLimit = limit

	if cfg.DatabaseURL == "" && cfg.DBDriver == DriverPostgres {
		cfg.DatabaseURL = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=America/Sao_Paulo",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.NotValidf("DB_DRIVER %q", c.DBDriver)
	}
	if c.Port == "" {
		return errors.NotValidf("empty PORT")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, errors.NotValidf("%s %q", key, v)
	}
	return d, nil
}
