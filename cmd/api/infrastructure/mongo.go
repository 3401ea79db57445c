package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"grocery-delivery-service/internal/config"
)

// NewMongoClient connects to the audit store. It returns nil, nil when no URI is configured.
func NewMongoClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*mongo.Client, error) {
	if cfg.Mongo.URI == "" {
		l.Info("audit store disabled, MONGO_URI is empty")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	l.Info("mongodb connected successfully", zap.String("database", cfg.Mongo.Database))
	return client, nil
}

// CloseMongo disconnects the client when present.
func CloseMongo(ctx context.Context, client *mongo.Client) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
