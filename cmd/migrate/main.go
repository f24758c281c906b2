package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"mei-storefront/internal/db"
	"mei-storefront/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("STOREFRONT_APP_ENV"))
	defer logger.Sync()

	mode := flag.String("mode", db.ModeUp, "migration mode: up or down")
	dsn := flag.String("dsn", os.Getenv("STOREFRONT_NATIVE_DSN"), "sqlite DSN of the native store")
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	flag.Parse()

	ctx := context.Background()
	conn, err := db.Open(ctx, *dsn)
	if err != nil {
		logger.L().Fatal("failed to open native store", zap.Error(err))
	}
	defer conn.Close()

	if err := run(ctx, conn, *mode, migrationsFS(*dir)); err != nil {
		logger.L().Fatal("migration failed", zap.String("mode", *mode), zap.Error(err))
	}
}

func migrationsFS(dir string) fs.FS {
	if dir == "" {
		return db.Migrations()
	}
	return os.DirFS(dir)
}

func run(ctx context.Context, conn *sql.DB, mode string, migrations fs.FS) error {
	if err := db.Migrate(ctx, conn, migrations, mode); err != nil {
		return err
	}
	fmt.Printf("migrations %s: done\n", mode)
	return nil
}
