package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime settings for the service.
type Config struct {
	Port           string
	Host           string
	AllowedOrigins []string
	LogLevel       string

	// Web search (Google Custom Search)
	SearchAPIKey   string
	SearchEngineID string

	// Price pipeline
	PerDomainDelay time.Duration // minimum interval between fetches to one retailer
	FetchTimeout   time.Duration // hard cap for a single page fetch
	MaxPerStore    int           // results kept per store when grouping
	TopN           int           // size of the ranked "top" view
	PriceFloor     float64       // lowest plausible free-text price

	// External services
	VisionAPIKey string
	GeminiAPIKey string
	GeminiModel  string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Storage and scheduling
	DatabaseURL      string
	DealsRefreshSpec string
}

// Load reads the configuration from environment variables, applying defaults
// for everything that is safe to default.
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		Host:           getEnv("HOST", "0.0.0.0"),
		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://10.0.2.2:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		SearchAPIKey:   os.Getenv("SEARCH_API_KEY"),
		SearchEngineID: os.Getenv("SEARCH_ENGINE_ID"),

		PerDomainDelay: getEnvDuration("PER_DOMAIN_DELAY", time.Second),
		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		MaxPerStore:    getEnvInt("MAX_PER_STORE", 3),
		TopN:           getEnvInt("TOP_N", 3),
		PriceFloor:     getEnvFloat("PRICE_FLOOR", 0.8),

		VisionAPIKey: os.Getenv("VISION_API_KEY"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 3*time.Hour),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DealsRefreshSpec: getEnv("DEALS_REFRESH_SPEC", "0 0 6 * * *"),
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
