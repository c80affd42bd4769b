package server

import (
	"go.uber.org/zap"
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	grpcadapter "user-directory-service/internal/adapter/grpc"
	"user-directory-service/internal/adapter/grpc/middleware"
	"user-directory-service/internal/adapter/resolver"
	"user-directory-service/pkg/logger"
)

// SetupGRPC creates the gRPC server with the operation service and the
// standard health service registered.
func SetupGRPC(res *resolver.Resolver, l *zap.Logger, rateLimiter *middleware.RateLimiter) (*grpc.Server, *health.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			middleware.RecoveryInterceptor(l),
			middleware.LoggingInterceptor(l),
			rateLimiter.UnaryInterceptor(),
		),
	)
	grpcadapter.RegisterUserOperationsServer(grpcServer, grpcadapter.NewUserOperations(res, l))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer, healthServer
}
