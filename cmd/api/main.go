package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumeATS/internal/api"
	"resumeATS/internal/config"
	"resumeATS/internal/database"
	applog "resumeATS/internal/logger"
	"resumeATS/internal/storage"
	"resumeATS/internal/tasks"
)

func main() {
	cfg := config.MustLoad()

	logger := applog.New(cfg.Log)
	slog.SetDefault(logger)
	logger.Info("api bootstrapped",
		slog.String("db_host", cfg.Database.Host),
		slog.Int("db_port", cfg.Database.Port),
		slog.String("db_name", cfg.Database.Name),
		slog.String("upload_backend", cfg.Upload.Backend),
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	logger.Info("database migrated")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	var uploads api.UploadStore
	switch cfg.Upload.Backend {
	case config.UploadBackendMinIO:
		storageClient, err := storage.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("init storage client: %v", err)
		}
		uploads = api.NewObjectUploadStore(storageClient)
	default:
		local, err := api.NewLocalUploadStore(cfg.Upload.Dir)
		if err != nil {
			log.Fatalf("init upload dir: %v", err)
		}
		uploads = local
	}

	var scanner api.Scanner
	if cfg.Upload.ClamdAddr != "" {
		scanner = api.NewClamdScanner(cfg.Upload.ClamdAddr)
		logger.Info("clamd scanning enabled", slog.String("addr", cfg.Upload.ClamdAddr))
	}

	taskOpts := tasks.TaskOptions{
		Queue:    cfg.Worker.Queue,
		Timeout:  cfg.Worker.TaskTimeout,
		MaxRetry: cfg.Worker.MaxRetry,
	}
	resumeHandler := api.NewResumeHandler(
		database.NewStatusStore(db),
		asynqClient,
		uploads,
		scanner,
		cfg.Upload.MaxBytes,
		taskOpts,
	)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, resumeHandler, redisClient, cfg.Upload.RateLimit)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("api shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("api shutdown failed", slog.Any("error", err))
	}
}
