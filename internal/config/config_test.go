package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("memory driver needs no database url", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "MEMORY")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiry)
		assert.Equal(t, 30*time.Second, cfg.Redis.ScheduleTTL)
	})

	t.Run("postgres driver requires database url", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		t.Setenv("JWT_SECRET", "secret")

		_, err := Load()
		assert.EqualError(t, err, "DATABASE_URL is required")
	})

	t.Run("jwt secret is required", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "memory")
		t.Setenv("JWT_SECRET", "")

		_, err := Load()
		assert.EqualError(t, err, "JWT_SECRET is required")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage:  StorageConfig{Driver: StorageDriverPostgres},
			Database: DatabaseConfig{URL: "postgres://u:p@localhost/db"},
			JWT:      JWTConfig{Secret: "secret", AccessTokenExpiry: time.Minute},
			Kafka:    KafkaConfig{BookingTopic: "booking-events"},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Storage.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Security.AdminUsername = "admin"
	assert.EqualError(t, cfg.Validate(), "ADMIN_USERNAME and ADMIN_PASSWORD must be set together")

	cfg = valid()
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.ScheduleTTL = 0
	assert.EqualError(t, cfg.Validate(), "SCHEDULE_CACHE_TTL_SECONDS must be positive when REDIS_ADDR is set")
	cfg.Redis.ScheduleTTL = 30 * time.Second
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.BookingTopic = ""
	assert.Error(t, cfg.Validate())
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("TEST_INT", 7))

	t.Setenv("TEST_BOOL", "false")
	assert.False(t, getEnvAsBool("TEST_BOOL", true))

	assert.Equal(t, []string{"a"}, getEnvAsSlice("TEST_UNSET_SLICE", []string{"a"}))
}
