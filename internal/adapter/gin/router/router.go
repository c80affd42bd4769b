package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/gin/middleware"
	grpcmiddleware "user-directory-service/internal/adapter/grpc/middleware"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(*gin.Context) error

// SetupRouter configures and returns a Gin router with all routes and middleware.
// rateLimiter and health may be nil.
func SetupRouter(
	operationHandler *handler.OperationHandler,
	userHandler *handler.UserHandler,
	rateLimiter *grpcmiddleware.RateLimiter,
	health HealthCheck,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics())

	router.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "user-directory-service",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-directory-service",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("")
	api.Use(middleware.RateLimiter(rateLimiter))
	{
		api.POST("/graphql", operationHandler.Execute)
		api.GET("/graphql", operationHandler.Query)

		users := api.Group("/v1/users")
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/count", userHandler.CountUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return router
}
