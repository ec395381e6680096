package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_HOST", "")

	cfg := Load()

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "USD", cfg.DefaultCurrency)
	assert.Equal(t, 3, cfg.Transfer.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Transfer.ProcessingTimeout)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Redis.WalletTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("DEFAULT_CURRENCY", "eur")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("TRANSFER_LOCK_TIMEOUT", "750ms")
	t.Setenv("TRANSFER_MAX_RETRIES", "not-a-number")
	t.Setenv("ENV", "production")

	cfg := Load()

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "EUR", cfg.DefaultCurrency)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 750*time.Millisecond, cfg.Transfer.LockTimeout)
	assert.Equal(t, 3, cfg.Transfer.MaxRetries)
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require", d.DSN())
}
