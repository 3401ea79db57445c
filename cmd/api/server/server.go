package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"

	"grocery-delivery-service/cmd/api/di"
	"grocery-delivery-service/internal/config"
)

const healthPublishInterval = 10 * time.Second

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	GRPC   *grpc.Server
	Health *grpchealth.Server
	HTTP   *http.Server

	container *di.Container
}

// New creates a new server instance
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	grpcServer, healthServer := SetupGRPC(l, c.RateLimiter)
	return &Server{
		Config:    cfg,
		Logger:    l,
		GRPC:      grpcServer,
		Health:    healthServer,
		HTTP:      SetupGinServer(c.Handlers, c.RouterConfig(), httpAddress(cfg), l),
		container: c,
	}
}

// Start runs the REST and gRPC servers until one of them fails or ctx is
// done, then shuts both down gracefully. It returns nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.startGRPC(ctx); err != nil {
			return fmt.Errorf("failed to start gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.Logger.Info("REST API running", zap.String("address", s.HTTP.Addr))
		if err := s.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.container.Health.Publish(ctx, s.Health, healthPublishInterval)
		return nil
	})

	// Either a signal or a failing server stops both.
	g.Go(func() error {
		<-ctx.Done()
		timeout := time.Duration(s.Config.App.ShutdownTimeoutSeconds) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		return s.shutdown(shutdownCtx)
	})

	return g.Wait()
}

// startGRPC starts the gRPC server
func (s *Server) startGRPC(ctx context.Context) error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", grpcAddress(s.Config))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.Logger.Info("gRPC server running", zap.String("address", grpcAddress(s.Config)))
	if err := s.GRPC.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// shutdown stops the REST server first, then drains gRPC.
func (s *Server) shutdown(ctx context.Context) error {
	var errs []error

	s.Logger.Info("shutting down HTTP server...")
	if err := s.HTTP.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	s.Logger.Info("shutting down gRPC server...")
	s.Health.Shutdown()
	stopped := make(chan struct{})
	go func() {
		s.GRPC.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-ctx.Done():
		s.GRPC.Stop()
	}

	return errors.Join(errs...)
}

func grpcAddress(cfg *config.Config) string {
	return ":" + cfg.App.GRPCPort
}

func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
