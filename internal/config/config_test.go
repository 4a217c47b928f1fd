package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ms-directory/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "KAFKA_BROKERS", "KAFKA_ENABLED", "DIRECTORY_LIST_LIMIT", "SEED_DATA"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Database.MaxLifetime)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.False(t, cfg.Database.SeedData)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 10, cfg.Directory.ListLimit)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_DSN", "file:test.db")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("DIRECTORY_LIST_LIMIT", "25")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := config.Load()
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.SQLiteDSN)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, 25, cfg.Directory.ListLimit)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}
