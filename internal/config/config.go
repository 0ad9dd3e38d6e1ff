package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds gateway listener configuration.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// APIConfig holds prediction-backend client configuration.
type APIConfig struct {
	// BaseURL of the prediction backend, e.g. http://localhost:8000.
	BaseURL string
	// RequestsPerSecond caps outbound fetches; 0 disables limiting.
	RequestsPerSecond float64
	// RetryAttempts counts total tries per fetch, including the first.
	RetryAttempts int
}

// CacheConfig holds query-cache tuning.
type CacheConfig struct {
	StaleTime  time.Duration
	Retention  time.Duration
	GCInterval time.Duration
	// RedisURL enables the snapshot tier when non-empty.
	RedisURL string
}

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	API    APIConfig
	Cache  CacheConfig
}

// LoadConfig loads configuration from a .env file (if present) and the
// environment.
func LoadConfig() *Config {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Addr:        getEnv("SERVER_ADDR", ":8090"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		},
		API: APIConfig{
			BaseURL:           getEnv("API_BASE_URL", "http://localhost:8000"),
			RequestsPerSecond: getEnvFloat("API_RPS", 0),
			RetryAttempts:     getEnvInt("API_RETRY_ATTEMPTS", 2),
		},
		Cache: CacheConfig{
			StaleTime:  getEnvDuration("CACHE_STALE_TIME", 5*time.Minute),
			Retention:  getEnvDuration("CACHE_RETENTION", 10*time.Minute),
			GCInterval: getEnvDuration("CACHE_GC_INTERVAL", time.Minute),
			RedisURL:   getEnv("REDIS_URL", ""),
		},
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
