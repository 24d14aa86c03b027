package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App       AppConfig
	Store     StoreConfig
	Redis     RedisConfig
	Paging    PagingConfig
	HTTPCache HTTPCacheConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string

	// TrustedProxies are the IPs/CIDRs whose X-Forwarded-* headers are
	// believed when building links. Empty trusts nobody.
	TrustedProxies []string
}

type StoreConfig struct {
	Driver       string // postgres, memory
	ResetOnStart bool
	Seed         bool
}

// RedisConfig leaves Host empty to run without the author cache.
type RedisConfig struct {
	Host     string
	Password string
	DB       int
	TTL      time.Duration
}

type PagingConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type HTTPCacheConfig struct {
	MaxAge       int // seconds
	CourseMaxAge int // seconds, single course GET
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "CourseLibrary API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),

			TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		},
		Store: StoreConfig{
			Driver:       strings.ToLower(getEnv("STORE_DRIVER", StoreDriverPostgres)),
			ResetOnStart: getEnvBool("DB_RESET_ON_START", false),
			Seed:         getEnvBool("DB_SEED", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      ttl,
		},
		Paging: PagingConfig{
			DefaultPageSize: getEnvInt("PAGE_SIZE_DEFAULT", 10),
			MaxPageSize:     getEnvInt("PAGE_SIZE_MAX", 20),
		},
		HTTPCache: HTTPCacheConfig{
			MaxAge:       getEnvInt("HTTP_CACHE_MAX_AGE", 60),
			CourseMaxAge: getEnvInt("HTTP_CACHE_COURSE_MAX_AGE", 1000),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, c.Store.Driver)
	}

	if c.Paging.DefaultPageSize < 1 || c.Paging.MaxPageSize < 1 {
		return fmt.Errorf("PAGE_SIZE_DEFAULT and PAGE_SIZE_MAX must be positive")
	}
	if c.Paging.DefaultPageSize > c.Paging.MaxPageSize {
		return fmt.Errorf("PAGE_SIZE_DEFAULT (%d) exceeds PAGE_SIZE_MAX (%d)", c.Paging.DefaultPageSize, c.Paging.MaxPageSize)
	}

	if c.HTTPCache.MaxAge < 0 || c.HTTPCache.CourseMaxAge < 0 {
		return fmt.Errorf("HTTP cache max-age must not be negative")
	}

	// Resetting wipes every author, never in production.
	if c.App.Environment == "production" && c.Store.ResetOnStart {
		return fmt.Errorf("DB_RESET_ON_START must not be set in production")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
