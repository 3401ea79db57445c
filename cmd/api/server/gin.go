package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"grocery-delivery-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(h router.Handlers, cfg router.Config, addr string, l *zap.Logger) *http.Server {
	engine := router.SetupRouter(h, cfg, l)

	l.Info("Gin REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
