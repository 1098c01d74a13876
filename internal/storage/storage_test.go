package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestParseObjectURI(t *testing.T) {
	tests := []struct {
		uri    string
		bucket string
		key    string
		ok     bool
	}{
		{uri: "s3://resumes/2024/05/cv.pdf", bucket: "resumes", key: "2024/05/cv.pdf", ok: true},
		{uri: "s3://resumes/cv.docx", bucket: "resumes", key: "cv.docx", ok: true},
		{uri: "s3://resumes/", ok: false},
		{uri: "s3:///cv.pdf", ok: false},
		{uri: "s3://resumes", ok: false},
		{uri: "/uploads/cv.pdf", ok: false},
		{uri: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, ok := ParseObjectURI(tt.uri)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestIsNoSuchKey(t *testing.T) {
	assert.False(t, IsNoSuchKey(nil))
	assert.True(t, IsNoSuchKey(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, IsNoSuchKey(fmt.Errorf("download: %w", minio.ErrorResponse{Code: "NotFound"})))
	assert.True(t, IsNoSuchKey(errors.New("The specified key does not exist.")))
	assert.False(t, IsNoSuchKey(errors.New("connection refused")))
}

func TestIsNoSuchBucket(t *testing.T) {
	assert.False(t, IsNoSuchBucket(nil))
	assert.True(t, IsNoSuchBucket(minio.ErrorResponse{Code: "NoSuchBucket"}))
	assert.False(t, IsNoSuchBucket(minio.ErrorResponse{Code: "AccessDenied"}))
}

func TestIsObjectMissing(t *testing.T) {
	assert.True(t, IsObjectMissing(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, IsObjectMissing(fmt.Errorf("fget: %w", minio.ErrorResponse{Code: "NoSuchBucket"})))
	assert.False(t, IsObjectMissing(errors.New("i/o timeout")))
	assert.False(t, IsObjectMissing(nil))
}

func TestParseBucketLookup(t *testing.T) {
	for raw, want := range map[string]minio.BucketLookupType{
		"":      minio.BucketLookupAuto,
		"AUTO":  minio.BucketLookupAuto,
		"dns":   minio.BucketLookupDNS,
		" path": minio.BucketLookupPath,
	} {
		got, err := ParseBucketLookup(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseBucketLookup("virtual")
	assert.Error(t, err)
}
