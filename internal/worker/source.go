package worker

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"resumeATS/internal/errcode"
	"resumeATS/internal/storage"
)

// ObjectDownloader 从对象存储下载文件，由 storage.Client 实现。
type ObjectDownloader interface {
	DownloadToFile(ctx context.Context, bucket, objectKey, path string) error
}

// SourceResolver 把任务中的 filePath 解析为本地可读路径。
// 本地路径原样返回；s3://bucket/key 下载到临时文件。
type SourceResolver struct {
	objects ObjectDownloader
	tempDir string
}

// NewSourceResolver 创建解析器。objects 为 nil 时不支持 s3:// 路径。
func NewSourceResolver(objects ObjectDownloader, tempDir string) *SourceResolver {
	return &SourceResolver{objects: objects, tempDir: tempDir}
}

// Resolve 返回本地路径与清理函数，清理函数总是非 nil。
func (r *SourceResolver) Resolve(ctx context.Context, filePath string) (string, func(), error) {
	noop := func() {}

	bucket, key, ok := storage.ParseObjectURI(filePath)
	if !ok {
		return filePath, noop, nil
	}
	if r.objects == nil {
		return "", noop, errcode.New(errcode.FileNotFound,
			"Resume file not found: %s (object storage is not configured)", filePath)
	}

	f, err := os.CreateTemp(r.tempDir, "resume-*"+strings.ToLower(path.Ext(key)))
	if err != nil {
		return "", noop, fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	_ = f.Close()
	cleanup := func() { _ = os.Remove(tmp) }

	if err := r.objects.DownloadToFile(ctx, bucket, key, tmp); err != nil {
		cleanup()
		if storage.IsObjectMissing(err) {
			return "", noop, errcode.Wrap(errcode.FileNotFound, err, "Resume file not found: %s", filePath)
		}
		return "", noop, fmt.Errorf("download %s: %w", filePath, err)
	}
	return tmp, cleanup, nil
}
