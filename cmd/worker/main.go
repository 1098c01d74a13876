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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"resumeATS/internal/ats"
	"resumeATS/internal/config"
	"resumeATS/internal/database"
	"resumeATS/internal/extract"
	applog "resumeATS/internal/logger"
	"resumeATS/internal/metrics"
	"resumeATS/internal/skills"
	"resumeATS/internal/storage"
	"resumeATS/internal/tasks"
	"resumeATS/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := applog.New(cfg.Log)
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	logger.Info("database connection ready for worker")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	var sources *worker.SourceResolver
	if cfg.MinIO.Enabled {
		storageClient, err := storage.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("init storage client: %v", err)
		}
		logger.Info("storage client ready", slog.String("bucket", storageClient.Bucket()))
		sources = worker.NewSourceResolver(storageClient, cfg.Worker.TempDir)
	} else {
		sources = worker.NewSourceResolver(nil, cfg.Worker.TempDir)
	}

	// 字典、匹配器与评分引擎只构建一次，由所有并发任务共享。
	dict := skills.NewDefaultDictionary()
	pipeline := worker.NewPipeline(
		extract.New(logger, extract.WithMaxPages(cfg.Worker.PDFMaxPages)),
		skills.NewMatcher(dict),
		ats.NewEngine(dict.Len(), logger),
		logger,
	)

	handler := worker.NewResumeTaskHandler(
		database.NewStatusStore(db),
		pipeline,
		sources,
		worker.NewRedisNotifier(redisClient),
		logger,
	)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     cfg.Worker.Concurrency,
		Queues:          map[string]int{cfg.Worker.Queue: 1},
		ShutdownTimeout: 30 * time.Second,
		Logger:          newAsynqLogger(logger),
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeResumeParse, handler)

	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.Any("error", err))
		}
	}()

	if err := server.Start(mux); err != nil {
		log.Fatalf("start worker server: %v", err)
	}
	logger.Info("worker service started",
		slog.String("redis_addr", cfg.Redis.Addr()),
		slog.String("queue", cfg.Worker.Queue),
		slog.Int("concurrency", cfg.Worker.Concurrency),
		slog.Int("skills", dict.Len()),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	server.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown failed", slog.Any("error", err))
	}
}

// asynqLogger 把 asynq 的内部日志转到 slog。
type asynqLogger struct {
	l *slog.Logger
}

func newAsynqLogger(l *slog.Logger) *asynqLogger {
	return &asynqLogger{l: l.With(slog.String("component", "asynq"))}
}

func (a *asynqLogger) Debug(args ...any) { a.l.Debug(fmt.Sprint(args...)) }
func (a *asynqLogger) Info(args ...any)  { a.l.Info(fmt.Sprint(args...)) }
func (a *asynqLogger) Warn(args ...any)  { a.l.Warn(fmt.Sprint(args...)) }
func (a *asynqLogger) Error(args ...any) { a.l.Error(fmt.Sprint(args...)) }
func (a *asynqLogger) Fatal(args ...any) {
	a.l.Error(fmt.Sprint(args...))
	os.Exit(1)
}
