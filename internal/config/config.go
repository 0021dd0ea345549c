package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string
	MediaPath    string // Base path for uploaded post images
	RedisAddr    string // Optional; empty means the in-process feed cache
	FeedCacheTTL time.Duration
}

// Load loads configuration from a .env file (if present) and environment
// variables, falling back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	ttlStr := getEnv("FEED_CACHE_TTL_SECONDS", "20")
	ttlSeconds, err := strconv.Atoi(ttlStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:   port,
		DatabasePath: getEnv("DATABASE_PATH", "./inkstream.db"),
		MediaPath:    getEnv("MEDIA_PATH", "./media"),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		FeedCacheTTL: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
