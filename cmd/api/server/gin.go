package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"user-directory-service/cmd/api/di"
	ginrouter "user-directory-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin HTTP server
func SetupGinServer(c *di.Container, ginAddr string, l *zap.Logger) *http.Server {
	router := ginrouter.SetupRouter(
		c.OperationHandler,
		c.UserHandler,
		c.RateLimiter,
		c.HealthCheck(),
		l,
	)

	l.Info("Gin HTTP API configured", zap.String("address", ginAddr))

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
