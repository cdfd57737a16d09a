// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/realestate-app/utils"
)

const devJWTSecret = "dev-only-realestate-secret"

type Config struct {
	Port      string
	APIPrefix string
	GinMode   string

	DBDriver string
	DBDSN    string

	JWTSecret        string
	JWTExpiresIn     time.Duration
	JWTRefreshExpiry time.Duration

	FrontendDomain string
	UploadDir      string
	MaxUploadBytes int64

	SnowflakeNode  int64
	RateLimitRPS   float64
	RateLimitBurst int
	HSTS           bool

	MetricsEnabled bool
	Log            utils.LogOptions
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "3010"),
		APIPrefix:        strings.Trim(getEnv("API_PREFIX", "api"), "/"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBDSN:            getEnv("DB_DSN", "realestate.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		FrontendDomain:   getEnv("FRONTEND_DOMAIN", "*"),
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		MetricsEnabled:   getBool("METRICS_ENABLED", true),
		HSTS:             getBool("HSTS_ENABLED", false),
		Log: utils.LogOptions{
			Format:     getEnv("LOG_FORMAT", "text"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getInt("LOG_MAX_AGE_DAYS", 30),
		},
	}

	var err error
	if cfg.JWTExpiresIn, err = getDuration("JWT_EXPIRES_IN", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWTRefreshExpiry, err = getDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour); err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(getInt("MAX_UPLOAD_MB", 10)) << 20
	cfg.SnowflakeNode = int64(getInt("SNOWFLAKE_NODE", 1))
	cfg.RateLimitBurst = getInt("RATE_LIMIT_BURST", 40)
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "20"), 64); err != nil {
		return nil, fmt.Errorf("config: RATE_LIMIT_RPS: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.GinMode == "release" {
			return errors.New("config: JWT_SECRET is required in release mode")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "mysql" {
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		return fmt.Errorf("config: SNOWFLAKE_NODE must be within 0..1023, got %d", c.SnowflakeNode)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
