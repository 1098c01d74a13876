package storage

import (
	"errors"
	"strings"

	"github.com/minio/minio-go/v7"
)

// errorCode 取出 MinIO 错误码（小写），非 ErrorResponse 返回空串。
func errorCode(err error) string {
	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		return strings.ToLower(strings.TrimSpace(minioErr.Code))
	}
	return ""
}

// messageContains 用于网关把错误转成纯文本的情况。
func messageContains(err error, fragments ...string) bool {
	lower := strings.ToLower(err.Error())
	for _, f := range fragments {
		if strings.Contains(lower, f) {
			return true
		}
	}
	return false
}

// IsNoSuchKey 判断对象是否不存在（NoSuchKey/NotFound）。
func IsNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	switch errorCode(err) {
	case "nosuchkey", "notfound":
		return true
	}
	return messageContains(err, "nosuchkey", "specified key does not exist")
}

// IsNoSuchBucket 判断 Bucket 是否不存在。
func IsNoSuchBucket(err error) bool {
	if err == nil {
		return false
	}
	if errorCode(err) == "nosuchbucket" {
		return true
	}
	return messageContains(err, "nosuchbucket", "specified bucket does not exist")
}

// IsObjectMissing 表示 s3:// 路径指向的简历文件已不可取回，重试不会改变结果。
func IsObjectMissing(err error) bool {
	return IsNoSuchKey(err) || IsNoSuchBucket(err)
}
