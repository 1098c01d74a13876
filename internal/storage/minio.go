package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"resumeATS/internal/config"
)

// URIScheme 是对象存储中简历文件路径的前缀，形如 s3://bucket/key。
const URIScheme = "s3://"

// Client 是简历原件的对象存储：API 上传，worker 下载到临时文件，入队失败时删除。
type Client struct {
	internalClient *minio.Client
	bucketName     string
}

// ParseBucketLookup 把 MINIO_BUCKET_LOOKUP 转为 minio 的寻址方式。
func ParseBucketLookup(raw string) (minio.BucketLookupType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "auto":
		return minio.BucketLookupAuto, nil
	case "dns":
		return minio.BucketLookupDNS, nil
	case "path":
		return minio.BucketLookupPath, nil
	}
	return minio.BucketLookupAuto, fmt.Errorf("invalid minio bucket lookup %q", raw)
}

// NewClient 连接简历文件所在的 Bucket，必要时按配置创建。
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	lookup, err := ParseBucketLookup(cfg.BucketLookup)
	if err != nil {
		return nil, err
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	c := &Client{internalClient: mc, bucketName: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.ensureBucket(ctx, cfg.Region, cfg.AutoCreateBucket); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context, region string, autoCreate bool) error {
	exists, err := c.internalClient.BucketExists(ctx, c.bucketName)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", c.bucketName, err)
	}
	if exists {
		return nil
	}
	if !autoCreate {
		return fmt.Errorf("resume bucket %q is missing and MINIO_AUTO_CREATE_BUCKET is off", c.bucketName)
	}
	if err := c.internalClient.MakeBucket(ctx, c.bucketName, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("make bucket %q: %w", c.bucketName, err)
	}
	return nil
}

// Bucket 返回默认 Bucket 名称。
func (c *Client) Bucket() string {
	return c.bucketName
}

// UploadFile 上传简历原件。size 未知时传 -1，由 minio 分片上传。
func (c *Client) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (*minio.UploadInfo, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := c.internalClient.PutObject(ctx, c.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"source": "resume-upload"},
	})
	if err != nil {
		return nil, fmt.Errorf("put object %q: %w", objectName, err)
	}
	return &info, nil
}

// DownloadToFile 把对象下载到本地路径。bucket 为空时使用默认 Bucket。
func (c *Client) DownloadToFile(ctx context.Context, bucket, objectKey, path string) error {
	if bucket == "" {
		bucket = c.bucketName
	}
	if err := c.internalClient.FGetObject(ctx, bucket, objectKey, path, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download object %q from %q: %w", objectKey, bucket, err)
	}
	return nil
}

// DeleteObject 删除指定对象。
// 若对象不存在会被视为成功（幂等）。
func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil
	}
	if err := c.internalClient.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		if IsNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("remove object %q: %w", objectKey, err)
	}
	return nil
}

// ObjectURI 返回默认 Bucket 中对象的 s3:// 路径。
func (c *Client) ObjectURI(objectKey string) string {
	return URIScheme + c.bucketName + "/" + objectKey
}

// ParseObjectURI 拆分 s3://bucket/key，非该格式返回 ok=false。
func ParseObjectURI(uri string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(uri, URIScheme)
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
