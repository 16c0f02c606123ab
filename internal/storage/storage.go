package storage

import (
	"context"
	"time"
)

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket      string
	KeyPrefix   string
	ContentType string
}

// UploadedObject describes a stored media object.
type UploadedObject struct {
	Key string
	URL string
}

// Service uploads media files to remote object storage. Implementations are
// external collaborators; callers never assume the upload is in-process.
type Service interface {
	UploadFile(ctx context.Context, localPath string, opts UploadOptions) (UploadedObject, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
