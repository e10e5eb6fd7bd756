package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.True(t, cfg.DBEnabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "roster", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Schedule.DefaultWeeks)
	assert.Equal(t, time.Hour, cfg.Schedule.CacheTTL)
	assert.Empty(t, cfg.Schedule.WebhookURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_ENABLED", "false")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("SCHEDULE_DEFAULT_WEEKS", "6")
	t.Setenv("SCHEDULE_CACHE_TTL_SECONDS", "120")
	t.Setenv("SCHEDULE_WEBHOOK_URL", "http://hooks.local/run")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.False(t, cfg.DBEnabled)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 6, cfg.Schedule.DefaultWeeks)
	assert.Equal(t, 2*time.Minute, cfg.Schedule.CacheTTL)
	assert.Equal(t, "http://hooks.local/run", cfg.Schedule.WebhookURL)
}

func TestGetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "roster", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=roster sslmode=disable", c.GetDSN())
}

func TestParseIntFallback(t *testing.T) {
	assert.Equal(t, 7, parseInt("7", 3))
	assert.Equal(t, 3, parseInt("x", 3))
	assert.Equal(t, 3, parseInt("", 3))
}
