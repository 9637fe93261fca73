package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/you/usersvc/internal/config"
	"github.com/you/usersvc/internal/infrastructure/database"
	"github.com/you/usersvc/internal/infrastructure/repositories"
	"github.com/you/usersvc/internal/logger"
)

// Connects to the configured Postgres and Redis, applies the schema and
// reports what it found. Useful before the first deploy.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl := logger.Must(cfg.Environment)
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(cfg.DSN)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zl.Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		zl.Fatal("failed to ping database", zap.Error(err))
	}
	zl.Info("database connection successful")

	if err := database.AutoMigrate(db); err != nil {
		zl.Fatal("failed to run auto-migration", zap.Error(err))
	}
	zl.Info("auto-migration completed")

	var userCount int64
	if err := db.WithContext(ctx).Model(&repositories.DBUser{}).Count(&userCount).Error; err != nil {
		zl.Fatal("failed to query users table", zap.Error(err))
	}
	zl.Info("users table accessible", zap.Int64("count", userCount))

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rdb.Client.Close()
	if err := rdb.Ping(ctx); err != nil {
		zl.Fatal("failed to reach redis", zap.Error(err))
	}
	zl.Info("redis connection successful", zap.String("addr", cfg.RedisAddr))
}
