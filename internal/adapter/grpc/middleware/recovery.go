package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/logger"
)

// RecoveryInterceptor converts a handler panic into codes.Internal without
// exposing the panic value.
func RecoveryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp any, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.WithContext(ctx, log).Error("panic recovered in gRPC handler",
					zap.String("method", info.FullMethod),
					zap.Any("panic", p),
					zap.Stack("stack"),
				)
				resp, err = nil, status.Error(codes.Internal, apperrors.InternalMessage)
			}
		}()
		return handler(ctx, req)
	}
}

// LoggingInterceptor writes one log line per call.
func LoggingInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		}
		reqLog := logger.WithContext(ctx, log)
		if err != nil {
			reqLog.Warn("grpc request", append(fields, zap.Error(err))...)
		} else {
			reqLog.Info("grpc request", fields...)
		}
		return resp, err
	}
}
