package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// OpenPostgres opens a pooled lib/pq handle and verifies it with a ping.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return db, nil
}

// OpenPostgresWithRetry is OpenPostgres with the same backoff as Mongo.
func OpenPostgresWithRetry(ctx context.Context, dsn string, attempts int) (*sql.DB, error) {
	return retry(ctx, "Postgres", attempts, func() (*sql.DB, error) {
		return OpenPostgres(ctx, dsn)
	})
}
