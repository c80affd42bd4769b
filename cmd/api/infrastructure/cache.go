package infrastructure

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"user-directory-service/internal/config"
	redisclient "user-directory-service/pkg/redis"
)

// NewRedisClient creates a Redis client instrumented with metrics and guarded
// by a circuit breaker.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	redisConfig := redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}

	breaker := redisclient.DefaultBreakerConfig()
	if cfg.Redis.BreakerMinRequests > 0 {
		breaker.MinRequests = uint32(cfg.Redis.BreakerMinRequests)
	}
	if cfg.Redis.BreakerFailureRatio > 0 {
		breaker.FailureRatio = cfg.Redis.BreakerFailureRatio
	}
	if cfg.Redis.BreakerOpenSeconds > 0 {
		breaker.OpenTimeout = time.Duration(cfg.Redis.BreakerOpenSeconds) * time.Second
	}

	rdb, err := redisclient.NewClient(redisConfig, l,
		&redisclient.MetricsHook{},
		redisclient.NewCircuitBreakerHook(breaker, l),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
