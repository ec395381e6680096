package cache

import (
	"net"
	"time"

	"vetopay/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient opens a client for the configured host. Cache calls sit on
// the request path, so timeouts are kept short.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     20,
		MinIdleConns: 2,
	})
}
