package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"

	"resumeATS/internal/storage"
)

// UploadStore 保存上传的简历文件，返回写入任务的 filePath。
type UploadStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, filePath string) error
}

// LocalUploadStore 把文件写入 worker 可直接访问的本地目录。
type LocalUploadStore struct {
	dir string
}

// NewLocalUploadStore 创建本地存储，目录不存在时自动创建。
func NewLocalUploadStore(dir string) (*LocalUploadStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploadStore{dir: abs}, nil
}

// Save 写入文件并返回绝对路径。
func (s *LocalUploadStore) Save(_ context.Context, name string, r io.Reader, _ int64, _ string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}

// Remove 删除文件，文件不存在视为成功。
func (s *LocalUploadStore) Remove(_ context.Context, filePath string) error {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload file: %w", err)
	}
	return nil
}

// ObjectUploader 由 storage.Client 实现。
type ObjectUploader interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error)
	DeleteObject(ctx context.Context, objectKey string) error
	ObjectURI(objectKey string) string
}

// ObjectUploadStore 把文件写入对象存储，filePath 形如 s3://bucket/key。
type ObjectUploadStore struct {
	client ObjectUploader
	prefix string
}

// NewObjectUploadStore 创建对象存储上传器。
func NewObjectUploadStore(client ObjectUploader) *ObjectUploadStore {
	return &ObjectUploadStore{client: client, prefix: "resumes/"}
}

// Save 上传对象并返回 s3:// 路径。
func (s *ObjectUploadStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := s.prefix + name
	if _, err := s.client.UploadFile(ctx, key, r, size, contentType); err != nil {
		return "", err
	}
	return s.client.ObjectURI(key), nil
}

// Remove 删除 s3:// 路径对应的对象。
func (s *ObjectUploadStore) Remove(ctx context.Context, filePath string) error {
	_, key, ok := storage.ParseObjectURI(filePath)
	if !ok {
		return fmt.Errorf("not an object uri: %q", filePath)
	}
	return s.client.DeleteObject(ctx, key)
}
