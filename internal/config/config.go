package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 上传文件的存储后端。
const (
	UploadBackendLocal = "local"
	UploadBackendMinIO = "minio"
)

// Config aggregates application settings sourced from environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port int `mapstructure:"port"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

// RedisConfig 包含 Redis 连接配置，队列与通知共用。
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	Endpoint         string `mapstructure:"endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// WorkerConfig 控制 worker 进程的并发、队列与任务参数。
type WorkerConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	Queue       string        `mapstructure:"queue"`
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
	MaxRetry    int           `mapstructure:"max_retry"`
	MetricsPort int           `mapstructure:"metrics_port"`
	TempDir     string        `mapstructure:"temp_dir"`
	PDFMaxPages int           `mapstructure:"pdf_max_pages"`
}

// UploadConfig 控制参考 API 的上传校验与存储。
type UploadConfig struct {
	Dir       string `mapstructure:"dir"`
	MaxBytes  int64  `mapstructure:"max_bytes"`
	Backend   string `mapstructure:"backend"`
	ClamdAddr string `mapstructure:"clamd_addr"`
	RateLimit int    `mapstructure:"rate_limit"`
}

// LogConfig 控制 slog 输出。
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Addr returns host:port for go-redis and asynq.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Upload.Backend = strings.ToLower(strings.TrimSpace(cfg.Upload.Backend))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "resume_ats")
	v.SetDefault("database.user", "resume_ats")
	v.SetDefault("database.password", "resume_ats")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "resumes")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("worker.concurrency", 1)
	v.SetDefault("worker.queue", "resume_parse_queue")
	v.SetDefault("worker.task_timeout", 30*time.Minute)
	v.SetDefault("worker.max_retry", 3)
	v.SetDefault("worker.metrics_port", 9091)
	v.SetDefault("worker.temp_dir", "")
	v.SetDefault("worker.pdf_max_pages", 0)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_bytes", 5*1024*1024)
	v.SetDefault("upload.backend", UploadBackendLocal)
	v.SetDefault("upload.clamd_addr", "")
	v.SetDefault("upload.rate_limit", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                 "API_PORT",
		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.name":            "POSTGRES_DB",
		"database.user":            "POSTGRES_USER",
		"database.password":        "POSTGRES_PASSWORD",
		"database.sslmode":         "DATABASE_SSLMODE",
		"database.max_idle_conns":  "DATABASE_MAX_IDLE_CONNS",
		"database.max_open_conns":  "DATABASE_MAX_OPEN_CONNS",
		"redis.host":               "REDIS_HOST",
		"redis.port":               "REDIS_PORT",
		"redis.password":           "REDIS_PASSWORD",
		"redis.db":                 "REDIS_DB",
		"minio.enabled":            "MINIO_ENABLED",
		"minio.endpoint":           "MINIO_ENDPOINT",
		"minio.access_key_id":      "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":  "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":            "MINIO_USE_SSL",
		"minio.bucket":             "MINIO_BUCKET",
		"minio.region":             "MINIO_REGION",
		"minio.bucket_lookup":      "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket": "MINIO_AUTO_CREATE_BUCKET",
		"worker.concurrency":       "WORKER_CONCURRENCY",
		"worker.queue":             "WORKER_QUEUE",
		"worker.task_timeout":      "WORKER_TASK_TIMEOUT",
		"worker.max_retry":         "WORKER_MAX_RETRY",
		"worker.metrics_port":      "WORKER_METRICS_PORT",
		"worker.temp_dir":          "WORKER_TEMP_DIR",
		"worker.pdf_max_pages":     "WORKER_PDF_MAX_PAGES",
		"upload.dir":               "UPLOAD_DIR",
		"upload.max_bytes":         "UPLOAD_MAX_BYTES",
		"upload.backend":           "UPLOAD_BACKEND",
		"upload.clamd_addr":        "UPLOAD_CLAMD_ADDR",
		"upload.rate_limit":        "UPLOAD_RATE_LIMIT",
		"log.level":                "LOG_LEVEL",
		"log.format":               "LOG_FORMAT",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}
	if cfg.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if cfg.Database.Name == "" {
		return errors.New("database name is required")
	}
	if cfg.Database.User == "" {
		return errors.New("database user is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("database password is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.Worker.Concurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}
	if cfg.Worker.Queue == "" {
		return errors.New("worker queue is required")
	}
	if cfg.Worker.TaskTimeout <= 0 {
		return errors.New("worker task timeout must be positive")
	}
	if cfg.Worker.MaxRetry < 0 {
		return errors.New("worker max retry must not be negative")
	}
	if cfg.Worker.PDFMaxPages < 0 {
		return errors.New("worker pdf max pages must not be negative")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return errors.New("upload max bytes must be positive")
	}

	switch cfg.Upload.Backend {
	case UploadBackendLocal:
		if cfg.Upload.Dir == "" {
			return errors.New("upload dir is required for local backend")
		}
	case UploadBackendMinIO:
		if !cfg.MinIO.Enabled {
			return errors.New("upload backend minio requires MINIO_ENABLED=true")
		}
	default:
		return fmt.Errorf("unknown upload backend %q", cfg.Upload.Backend)
	}

	if cfg.MinIO.Enabled {
		if cfg.MinIO.Endpoint == "" {
			return errors.New("minio endpoint is required")
		}
		if cfg.MinIO.AccessKeyID == "" {
			return errors.New("minio access key id is required")
		}
		if cfg.MinIO.SecretAccessKey == "" {
			return errors.New("minio secret access key is required")
		}
		if cfg.MinIO.Bucket == "" {
			return errors.New("minio bucket is required")
		}
	}

	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	return nil
}
