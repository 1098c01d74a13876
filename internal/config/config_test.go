package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 1, cfg.Worker.Concurrency)
	assert.Equal(t, "resume_parse_queue", cfg.Worker.Queue)
	assert.Equal(t, 30*time.Minute, cfg.Worker.TaskTimeout)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, UploadBackendLocal, cfg.Upload.Backend)
	assert.False(t, cfg.MinIO.Enabled)
	assert.Equal(t, 0, cfg.Worker.PDFMaxPages)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("POSTGRES_DB", "ats")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("WORKER_CONCURRENCY", "4")
	t.Setenv("WORKER_TASK_TIMEOUT", "90s")
	t.Setenv("UPLOAD_BACKEND", " MinIO ")
	t.Setenv("MINIO_ENABLED", "true")
	t.Setenv("MINIO_ACCESS_KEY_ID", "key")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "secret")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("WORKER_PDF_MAX_PAGES", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, "ats", cfg.Database.Name)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Worker.TaskTimeout)
	assert.Equal(t, UploadBackendMinIO, cfg.Upload.Backend)
	assert.Contains(t, cfg.Database.DSN(), "dbname=ats")
	assert.Equal(t, 12, cfg.Worker.PDFMaxPages)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "zero concurrency", env: map[string]string{"WORKER_CONCURRENCY": "0"}},
		{name: "unknown backend", env: map[string]string{"UPLOAD_BACKEND": "ftp"}},
		{name: "minio backend without minio", env: map[string]string{"UPLOAD_BACKEND": "minio"}},
		{name: "minio without credentials", env: map[string]string{"MINIO_ENABLED": "true"}},
		{name: "negative pdf max pages", env: map[string]string{"WORKER_PDF_MAX_PAGES": "-1"}},
		{name: "bad log format", env: map[string]string{"LOG_FORMAT": "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
