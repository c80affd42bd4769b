package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory-service/cmd/api/infrastructure"
	"user-directory-service/internal/adapter/cache"
	"user-directory-service/internal/adapter/db/postgres"
	ginhandler "user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/gin/router"
	"user-directory-service/internal/adapter/grpc/middleware"
	"user-directory-service/internal/adapter/repository/cached"
	"user-directory-service/internal/adapter/resolver"
	"user-directory-service/internal/bootstrap"
	"user-directory-service/internal/config"
	"user-directory-service/internal/usecase/user"
	redisclient "user-directory-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *zap.Logger
	DB               *gorm.DB
	RedisClient      *redisclient.Client // nil when Redis is disabled or unreachable
	UserUC           user.Usecase
	Resolver         *resolver.Resolver
	RateLimiter      *middleware.RateLimiter
	OperationHandler *ginhandler.OperationHandler
	UserHandler      *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	c := &Container{Config: cfg, Logger: l, DB: db}

	// Redis is optional: without it the service reads straight from the
	// database and rate limits per process.
	var scripter redis.Scripter
	var repo user.Repository = postgres.NewUserRepoPG(db, l)
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(cfg, l)
		if err != nil {
			l.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			c.RedisClient = rdb
			scripter = rdb.Client
			userCache := cache.NewRedisUserCache(
				rdb.Client,
				time.Duration(cfg.Redis.CacheTTL)*time.Second,
				l,
			)
			repo = cached.NewCachedUserRepository(repo, userCache, l)
		}
	}

	if cfg.App.SeedOnStartup {
		if _, err := bootstrap.SeedUsers(ctx, repo, nil, l); err != nil {
			return nil, c.abort(fmt.Errorf("failed to seed users: %w", err))
		}
	}

	c.UserUC = user.New(repo, l, nil)
	c.Resolver = resolver.New(c.UserUC, l)

	c.RateLimiter = middleware.NewRateLimiter(
		scripter,
		middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
		nil,
		l,
	)

	c.OperationHandler = ginhandler.NewOperationHandler(c.Resolver, l)
	c.UserHandler = ginhandler.NewUserHandler(c.UserUC, l)

	return c, nil
}

// abort releases what was opened so far and reports err together with any close failure.
func (c *Container) abort(err error) error {
	return errors.Join(err, c.Close())
}

// HealthCheck pings the database and, when configured, Redis.
func (c *Container) HealthCheck() router.HealthCheck {
	return func(gc *gin.Context) error {
		ctx, cancel := context.WithTimeout(gc.Request.Context(), 2*time.Second)
		defer cancel()

		sqlDB, err := c.DB.DB()
		if err != nil {
			return fmt.Errorf("database handle: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database ping: %w", err)
		}
		if c.RedisClient != nil {
			if err := c.RedisClient.Ping(ctx); err != nil {
				return fmt.Errorf("redis ping: %w", err)
			}
		}
		return nil
	}
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
