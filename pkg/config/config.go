package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// SSOT: every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Gemini content generation
	Gemini GeminiConfig

	// API surface
	API APIConfig

	// Insight generation and caching
	Insights InsightsConfig

	// Benchmark reference table
	Benchmarks BenchmarksConfig

	// Seed data import
	Seed SeedConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey         string
	Model          string
	RequestTimeout time.Duration
	// Requests per minute allowed against the API, enforced in-process.
	RatePerMinute int
}

// APIConfig holds HTTP surface configuration
type APIConfig struct {
	// AdminToken gates the regeneration endpoints. Empty disables the
	// gate outside production.
	AdminToken     string
	AllowedOrigins []string
}

// InsightsConfig holds generation and cache tuning
type InsightsConfig struct {
	// Workers bounds the fan-out of bulk generation.
	Workers int
	// CacheCapacity bounds the in-memory insight cache.
	CacheCapacity int
	// StaleAfter is the age at which the scheduler refreshes a record.
	StaleAfter time.Duration
}

// BenchmarksConfig holds the reference table location
type BenchmarksConfig struct {
	Path string
}

// SeedConfig holds reference-data import settings
type SeedConfig struct {
	// CountrySourceURL points at the HTML country table the importer
	// parses. Empty means seeding needs a local file instead.
	CountrySourceURL string
}

// Load reads configuration from environment variables.
// SSOT: only this function calls os.Getenv().
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "atlas"),
			User:            getEnv("DB_USER", "atlas"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Gemini: GeminiConfig{
			APIKey:         getEnv("GEMINI_API_KEY", ""),
			Model:          getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			RequestTimeout: getEnvAsDuration("GEMINI_REQUEST_TIMEOUT", "90s"),
			RatePerMinute:  getEnvAsInt("GEMINI_RATE_PER_MINUTE", 15),
		},

		API: APIConfig{
			AdminToken:     getEnv("ADMIN_TOKEN", ""),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},

		Insights: InsightsConfig{
			Workers:       getEnvAsInt("INSIGHT_WORKERS", 4),
			CacheCapacity: getEnvAsInt("INSIGHT_CACHE_CAPACITY", 512),
			StaleAfter:    getEnvAsDuration("INSIGHT_STALE_AFTER", "720h"),
		},

		Benchmarks: BenchmarksConfig{
			Path: getEnv("BENCHMARKS_PATH", "configs/benchmarks.yaml"),
		},

		Seed: SeedConfig{
			CountrySourceURL: getEnv("SEED_COUNTRY_SOURCE_URL", ""),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	// Database URL is required
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	// Production must not expose ungated regeneration endpoints.
	if c.Env == "production" && c.API.AdminToken == "" {
		return fmt.Errorf("ADMIN_TOKEN is required in production")
	}

	if c.Insights.Workers < 1 {
		return fmt.Errorf("INSIGHT_WORKERS must be at least 1")
	}

	if c.Insights.CacheCapacity < 1 {
		return fmt.Errorf("INSIGHT_CACHE_CAPACITY must be at least 1")
	}

	return nil
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	// Try paths in order of priority
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
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

func getEnvAsBool(key string, defaultValue bool) bool {
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
