package port

import (
	"context"
	"io"
	"time"

	"stowage/internal/domain"
)

// PutObjectInput encapsulates the parameters needed to upload an object.
type PutObjectInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	// Size is the body length in bytes, or -1 when unknown.
	Size int64
}

// PutObjectOutput contains the result of a successful upload.
type PutObjectOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts cloud object storage operations.
type ObjectStorage interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	ListBuckets(ctx context.Context) ([]domain.Bucket, error)
	BucketExists(ctx context.Context, bucket string) (bool, error)
	CreateBucket(ctx context.Context, bucket string, acl domain.CannedACL) error
	DeleteBucket(ctx context.Context, bucket string) error

	// ListObjects returns every object under prefix, following pagination to the end.
	ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error)
	PutObject(ctx context.Context, input PutObjectInput) (*PutObjectOutput, error)
	// Download writes the object content to w and returns the number of bytes written.
	Download(ctx context.Context, bucket, key string, w io.WriterAt) (int64, error)
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	DeleteObject(ctx context.Context, bucket, key string) error
	// HeadObject returns domain.ErrNotFound when the object or bucket is missing.
	HeadObject(ctx context.Context, bucket, key string) (*domain.ObjectHead, error)
	PresignGetObject(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
