package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config is the full runtime configuration, read once at startup.
type Config struct {
	Env             string
	Port            string
	CORSOrigins     string
	LogLevel        string
	StorageDriver   string
	DefaultCurrency string

	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	JWT      JWTConfig
	Transfer TransferConfig
}

// DatabaseConfig holds PostgreSQL connection and pool settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DSN renders the key/value connection string understood by the postgres driver.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	// WalletTTL bounds how long a cached wallet is served.
	WalletTTL time.Duration
}

// Enabled reports whether a Redis host was configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

type KafkaConfig struct {
	Brokers     []string
	EmailTopic  string
	EventsTopic string
}

// Enabled reports whether at least one broker was configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type JWTConfig struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// TransferConfig tunes the transfer unit of work.
type TransferConfig struct {
	MaxRetries        int
	RetryBackoff      time.Duration
	LockTimeout       time.Duration
	ProcessingTimeout time.Duration
	SideEffectTimeout time.Duration
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load builds a Config from the environment.
func Load() Config {
	return Config{
		Env:             GetEnv("ENV", "development"),
		Port:            GetEnv("PORT", "3000"),
		CORSOrigins:     GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
		StorageDriver:   strings.ToLower(GetEnv("STORAGE_DRIVER", StoragePostgres)),
		DefaultCurrency: strings.ToUpper(GetEnv("DEFAULT_CURRENCY", "USD")),
		Database: DatabaseConfig{
			Host:            GetEnv("DB_HOST", "localhost"),
			Port:            GetEnv("DB_PORT", "5432"),
			User:            GetEnv("DB_USER", "postgres"),
			Password:        GetEnv("DB_PASSWORD", "postgres"),
			Name:            GetEnv("DB_NAME", "vetopay"),
			SSLMode:         GetEnv("DB_SSLMODE", "disable"),
			MaxIdleConns:    GetIntEnv("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    GetIntEnv("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
			ConnMaxIdleTime: GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			Host:      GetEnv("REDIS_HOST", ""),
			Port:      GetEnv("REDIS_PORT", "6379"),
			Password:  GetEnv("REDIS_PASSWORD", ""),
			DB:        GetIntEnv("REDIS_DB", 0),
			WalletTTL: GetDurationEnv("REDIS_WALLET_TTL", 30*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:     GetListEnv("KAFKA_BROKERS"),
			EmailTopic:  GetEnv("KAFKA_EMAIL_TOPIC", "emails"),
			EventsTopic: GetEnv("KAFKA_EVENTS_TOPIC", "transfer.completed"),
		},
		JWT: JWTConfig{
			Secret:        GetEnv("JWT_SECRET", "vetopay"),
			RefreshSecret: GetEnv("REFRESH_SECRET", "vetopay-refresh"),
			AccessTTL:     GetDurationEnv("JWT_ACCESS_TTL", 15*time.Minute),
			RefreshTTL:    GetDurationEnv("JWT_REFRESH_TTL", 7*24*time.Hour),
			Issuer:        GetEnv("JWT_ISSUER", "vetopay-api"),
		},
		Transfer: TransferConfig{
			MaxRetries:        GetIntEnv("TRANSFER_MAX_RETRIES", 3),
			RetryBackoff:      GetDurationEnv("TRANSFER_RETRY_BACKOFF", 25*time.Millisecond),
			LockTimeout:       GetDurationEnv("TRANSFER_LOCK_TIMEOUT", 5*time.Second),
			ProcessingTimeout: GetDurationEnv("TRANSFER_PROCESSING_TIMEOUT", 30*time.Second),
			SideEffectTimeout: GetDurationEnv("SIDE_EFFECT_TIMEOUT", 10*time.Second),
		},
	}
}

// IsProduction checks if the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// GetDurationEnv parses a time.Duration ("250ms", "1h") or falls back to the default.
func GetDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// GetListEnv splits a comma separated variable, dropping empty items.
func GetListEnv(key string) []string {
	raw := GetEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
