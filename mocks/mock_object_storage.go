package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"stowage/internal/domain"
	"stowage/internal/port"
)

// MockObjectStorage is a mock implementation of port.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Name() string {
	return "mock"
}

func (m *MockObjectStorage) ListBuckets(ctx context.Context) ([]domain.Bucket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bucket), args.Error(1)
}

func (m *MockObjectStorage) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStorage) CreateBucket(ctx context.Context, bucket string, acl domain.CannedACL) error {
	args := m.Called(ctx, bucket, acl)
	return args.Error(0)
}

func (m *MockObjectStorage) DeleteBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *MockObjectStorage) ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	args := m.Called(ctx, bucket, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ObjectInfo), args.Error(1)
}

func (m *MockObjectStorage) PutObject(ctx context.Context, input port.PutObjectInput) (*port.PutObjectOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PutObjectOutput), args.Error(1)
}

func (m *MockObjectStorage) Download(ctx context.Context, bucket, key string, w io.WriterAt) (int64, error) {
	args := m.Called(ctx, bucket, key, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockObjectStorage) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	args := m.Called(ctx, srcBucket, srcKey, dstBucket, dstKey)
	return args.Error(0)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockObjectStorage) HeadObject(ctx context.Context, bucket, key string) (*domain.ObjectHead, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ObjectHead), args.Error(1)
}

func (m *MockObjectStorage) PresignGetObject(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiry)
	return args.String(0), args.Error(1)
}
