package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "LOG_LEVEL", "LOG_PRETTY", "CORS_ALLOWED_ORIGINS",
		"FRONTEND_DIST_PATH", "VERSION_CACHE_SIZE", "SNAPSHOT_CRON", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"REVALUATION_INTERVAL_MINUTES", "REVALUATION_BATCH_SIZE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./kit_tracker.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 512, cfg.VersionCacheSize)
	assert.Equal(t, "0 23 * * *", cfg.SnapshotCron)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.Equal(t, 60, cfg.RevaluationIntervalMinutes)
	assert.Equal(t, 100, cfg.RevaluationBatchSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("VERSION_CACHE_SIZE", "64")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("REVALUATION_BATCH_SIZE", "25")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 64, cfg.VersionCacheSize)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 25, cfg.RevaluationBatchSize)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("VERSION_CACHE_SIZE", "lots")
	t.Setenv("RATE_LIMIT_BURST", "")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg := Load()

	assert.Equal(t, 512, cfg.VersionCacheSize)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.False(t, cfg.LogPretty)
}
