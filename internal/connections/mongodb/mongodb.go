package mongodb

import (
	"context"
	"fmt"
	"time"

	"restaurant-ops/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
	pingTTL    = 5 * time.Second
)

// Connect dials the deployment and retries until the primary answers a ping.
// Change streams need a replica set, so a standalone server fails later at Watch.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	var (
		client *mongo.Client
		err    error
	)

	for i := 1; i <= maxRetries; i++ {
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err == nil {
			pctx, cancel := context.WithTimeout(ctx, pingTTL)
			err = client.Ping(pctx, readpref.Primary())
			cancel()
			if err == nil {
				return client, nil
			}
			_ = client.Disconnect(context.Background())
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("mongo connect canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("mongo unreachable after %d attempts: %w", maxRetries, err)
}
