// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port               string
	DBPath             string
	LogLevel           string
	LogPretty          bool
	CORSAllowedOrigins []string
	FrontendDistPath   string
	VersionCacheSize   int
	SnapshotCron       string // standard 5-field cron spec for daily value snapshots
	RateLimitRPS       float64
	RateLimitBurst     int

	RevaluationIntervalMinutes int
	RevaluationBatchSize       int
}

// Load reads configuration from environment variables, after loading a .env
// file if one exists in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DBPath:             getEnv("DB_PATH", "./kit_tracker.db"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvAsBool("LOG_PRETTY", false),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		FrontendDistPath:   getEnv("FRONTEND_DIST_PATH", ""),
		VersionCacheSize:   getEnvAsInt("VERSION_CACHE_SIZE", 512),
		SnapshotCron:       getEnv("SNAPSHOT_CRON", "0 23 * * *"),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),

		RevaluationIntervalMinutes: getEnvAsInt("REVALUATION_INTERVAL_MINUTES", 60),
		RevaluationBatchSize:       getEnvAsInt("REVALUATION_BATCH_SIZE", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
