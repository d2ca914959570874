package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, ":8080", cfg.GetServerAddress())
	assert.Equal(t, 10, cfg.Engine.MaxQuantityPerUser)
	assert.Equal(t, "strict_fifo", cfg.Engine.PromotionPolicy)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.WindowDuration)
	assert.NotEmpty(t, cfg.Database.DSN)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENGINE_MAX_QUANTITY_PER_USER", "4")
	t.Setenv("ENGINE_PROMOTION_POLICY", "best_fit")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("REDIS_EVENT_CACHE_TTL", "5m")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 4, cfg.Engine.MaxQuantityPerUser)
	assert.Equal(t, "best_fit", cfg.Engine.PromotionPolicy)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.Redis.EventCacheTTL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("ENGINE_MAX_QUANTITY_PER_USER", "lots")
	t.Setenv("READ_TIMEOUT", "soon")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 10, cfg.Engine.MaxQuantityPerUser)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestGinModeHelpers(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	t.Setenv("GIN_MODE", "debug")
	cfg = Load()
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.IsDevelopment())
}

func TestDatabaseDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "campus")

	cfg := Load()

	assert.Contains(t, cfg.Database.DSN, "host=db.internal")
	assert.Contains(t, cfg.Database.DSN, "dbname=campus")
}
