package storage

import (
	"context"
	"fmt"

	"mei-storefront/internal/config"
	"mei-storefront/internal/db"
	"mei-storefront/internal/logger"

	"go.uber.org/zap"
)

// CloseFunc releases whatever the chosen backend holds open.
type CloseFunc func() error

func noopClose() error { return nil }

// Open is the single place the runtime target is inspected. Callers receive
// a KV and never branch on the platform again.
func Open(ctx context.Context, cfg *config.Config) (KV, CloseFunc, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "storage"), zap.String("target", cfg.RuntimeTarget))

	switch cfg.RuntimeTarget {
	case config.TargetWeb:
		key, err := cfg.StorageKey()
		if err != nil {
			return nil, nil, err
		}
		st, err := NewFileStore(cfg.WebStorePath, key)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using file store", zap.String("path", cfg.WebStorePath), zap.Bool("sealed", key != nil))
		return st, noopClose, nil

	case config.TargetNative:
		conn, err := db.Open(ctx, cfg.NativeDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx, conn, db.Migrations(), db.ModeUp); err != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("migrate native store: %w", err)
		}
		log.Info("using sqlite store")
		return NewSQLStore(conn), conn.Close, nil

	case config.TargetRedis:
		st, err := NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using redis store", zap.String("prefix", cfg.RedisPrefix))
		return st, st.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown runtime target %q", cfg.RuntimeTarget)
	}
}
