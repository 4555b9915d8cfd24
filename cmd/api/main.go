package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudkitchen/backend/internal/config"
	"github.com/cloudkitchen/backend/internal/db"
	"github.com/cloudkitchen/backend/internal/model"
	"github.com/cloudkitchen/backend/internal/observability"
	"github.com/cloudkitchen/backend/internal/server"
	"github.com/cloudkitchen/backend/internal/storage"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect error", zap.Error(err))
	}
	if err := conn.AutoMigrate(
		&model.MenuItem{},
		&model.Order{},
		&model.OrderLine{},
		&model.Conversation{},
		&model.Message{},
		&model.UserProfile{},
		&model.Notification{},
	); err != nil {
		logger.Fatal("auto migrate error", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	}

	var uploader *storage.Uploader
	if cfg.StorageBucket != "" {
		uploader, err = storage.NewUploader(context.Background(), cfg.StorageBucket, cfg.CredentialsFile)
		if err != nil {
			logger.Warn("image storage disabled", zap.Error(err))
			uploader = nil
		}
	}

	srv, err := server.New(conn, rdb, uploader, cfg, logger, gitSHA, buildTime)
	if err != nil {
		logger.Fatal("server init error", zap.Error(err))
	}

	addr := ":" + cfg.Port
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := srv.Start(addr); err != nil {
			logger.Warn("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", zap.Error(err))
	}
}
