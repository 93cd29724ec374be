package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Limits      LimitsConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL     string
	TestURL string
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Username string
	Password string
	DB       int
	PoolSize int
}

type LimitsConfig struct {
	MaxPageSize     int
	DefaultPageSize int
	RateLimit       int64
	RateLimitWindow time.Duration
}

// Load configuration from environment variables
func Load() (*Config, error) {
	// Load .env file in non-production environments; the file is optional
	env := os.Getenv("ENVIRONMENT")
	if env != "production" {
		_ = godotenv.Load()
	}

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:           getEnv("HOST", "localhost"),
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		},
		Database: DatabaseConfig{
			URL:     getEnv("DATABASE_URL", "file:heurekka.db"),
			TestURL: getEnv("DATABASE_URL_TEST", ""),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     parseInt(getEnv("REDIS_PORT", "6379")),
			Username: getEnv("REDIS_USERNAME", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0")),
			PoolSize: parseInt(getEnv("REDIS_POOL_SIZE", "10")),
		},
		Limits: LimitsConfig{
			MaxPageSize:     parseInt(getEnv("MAX_PAGE_SIZE", "100")),
			DefaultPageSize: parseInt(getEnv("DEFAULT_PAGE_SIZE", "24")),
			RateLimit:       parseInt64(getEnv("RATE_LIMIT_REQUESTS", "100")),
			RateLimitWindow: parseDuration(getEnv("RATE_LIMIT_WINDOW", "15m")),
		},
	}

	// Validate required configuration
	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// GetDatabaseURL returns the appropriate database URL based on environment
func (c *Config) GetDatabaseURL() string {
	if c.Environment == "test" && c.Database.TestURL != "" {
		return c.Database.TestURL
	}
	return c.Database.URL
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest returns true if running in test environment
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

func validate(config *Config) error {
	if config.IsProduction() {
		// The sqlite fallback is for local development only
		if strings.HasPrefix(config.Database.URL, "file:") || strings.HasSuffix(config.Database.URL, ".db") {
			return fmt.Errorf("DATABASE_URL must point at PostgreSQL in production")
		}
		if config.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required in production")
		}
	}
	if config.Limits.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive")
	}
	if config.Limits.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(value string) int {
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	return 0
}

func parseInt64(value string) int64 {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	return 0
}

func parseDuration(value string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return 0
}
