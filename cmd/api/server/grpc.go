package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"grocery-delivery-service/internal/adapter/grpc/middleware"
	"grocery-delivery-service/pkg/logger"
)

// SetupGRPC creates the operational gRPC server. It exposes the standard
// health service and reflection; the business API is REST only.
func SetupGRPC(l *zap.Logger, rateLimiter *middleware.RateLimiter) (*grpc.Server, *grpchealth.Server) {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RecoveryInterceptor(l),
			logger.RequestIDInterceptor(),
			logger.LoggingInterceptor(l),
			rateLimiter.UnaryInterceptor(),
		),
	)

	healthServer := grpchealth.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	return grpcServer, healthServer
}
