package db

import (
	"context"
	"database/sql"
	"fmt"

	"mei-storefront/internal/logger"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	driverName = "sqlite3"
	DefaultDSN = "file:storefront.db?_busy_timeout=5000"
)

// Open connects to the on-device SQLite file and verifies it is usable.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	return openWithDriver(ctx, driverName, dsn)
}

func openWithDriver(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	// A single writer avoids SQLITE_BUSY between pooled connections.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.FromCtx(ctx).Info("database connection established", zap.String("driver", driver))
	return conn, nil
}
