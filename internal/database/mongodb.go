package database

import (
	"context"
	"fmt"
	"time"

	"github.com/toyfactory/toyfactory/backend/go-services/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// ConnectMongoWithRetry retries ConnectMongo with doubling backoff to ride
// out container startup races.
func ConnectMongoWithRetry(ctx context.Context, uri string, timeout time.Duration, attempts int) (*mongo.Client, error) {
	return retry(ctx, "MongoDB", attempts, func() (*mongo.Client, error) {
		return ConnectMongo(ctx, uri, timeout)
	})
}

func retry[T any](ctx context.Context, what string, attempts int, connect func() (T, error)) (T, error) {
	var (
		v   T
		err error
	)
	if attempts < 1 {
		attempts = 1
	}
	backoff := time.Second
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err = connect()
		if err == nil {
			return v, nil
		}
		logger.Warnf("attempt %d/%d: failed to connect to %s: %v", attempt, attempts, what, err)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return v, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return v, fmt.Errorf("could not connect to %s after %d attempts: %w", what, attempts, err)
}
