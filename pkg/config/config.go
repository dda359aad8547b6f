package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Bank storage backends.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the runtime configuration of the server.
type Config struct {
	Port string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BankBackend   string

	GeminiAPIKey    string
	GeminiModel     string
	ProviderTimeout time.Duration

	LiveFeedBaseURL string
	RapidAPIKey     string
	RapidAPIHost    string
	FeedTimeout     time.Duration

	SessionTTL time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system environment")
	} else {
		log.Println("✅ .env file loaded")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		BankBackend:     getEnv("BANK_BACKEND", BackendRedis),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", ""),
		LiveFeedBaseURL: getEnv("LIVE_FEED_BASE_URL", ""),
		RapidAPIKey:     getEnv("RAPIDAPI_KEY", ""),
		RapidAPIHost:    getEnv("RAPIDAPI_HOST", ""),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = db

	if cfg.BankBackend != BackendRedis && cfg.BankBackend != BackendMemory {
		return nil, fmt.Errorf("invalid BANK_BACKEND %q (want %s or %s)", cfg.BankBackend, BackendRedis, BackendMemory)
	}

	if cfg.ProviderTimeout, err = getDuration("PROVIDER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.FeedTimeout, err = getDuration("FEED_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
