package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"stowage/internal/domain"
	"stowage/internal/service"
)

// MockStorageService is a mock implementation of service.StorageService.
type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) ListBuckets(ctx context.Context) ([]domain.Bucket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bucket), args.Error(1)
}

func (m *MockStorageService) ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	args := m.Called(ctx, bucket, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ObjectInfo), args.Error(1)
}

func (m *MockStorageService) PushDirectory(ctx context.Context, localDir, bucket, prefix string) (int, error) {
	args := m.Called(ctx, localDir, bucket, prefix)
	return args.Int(0), args.Error(1)
}

func (m *MockStorageService) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	args := m.Called(ctx, srcBucket, srcKey, dstBucket, dstKey)
	return args.Error(0)
}

func (m *MockStorageService) DeleteBucket(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *MockStorageService) CreateBucket(ctx context.Context, bucket string, acl domain.CannedACL) error {
	args := m.Called(ctx, bucket, acl)
	return args.Error(0)
}

func (m *MockStorageService) DeleteObject(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *MockStorageService) DeleteObjects(ctx context.Context, bucket string, keys []string) (int, error) {
	args := m.Called(ctx, bucket, keys)
	return args.Int(0), args.Error(1)
}

func (m *MockStorageService) PutFromURL(ctx context.Context, input service.PutFromURLInput) (*domain.StoredObject, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredObject), args.Error(1)
}

func (m *MockStorageService) CreateFolder(ctx context.Context, bucket, folder string) (string, error) {
	args := m.Called(ctx, bucket, folder)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) UploadFile(ctx context.Context, bucket, sourcePath, key string) (*domain.StoredObject, error) {
	args := m.Called(ctx, bucket, sourcePath, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredObject), args.Error(1)
}

func (m *MockStorageService) Upload(ctx context.Context, input service.UploadInput) (*domain.StoredObject, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredObject), args.Error(1)
}

func (m *MockStorageService) HeadObject(ctx context.Context, bucket, key string) (*domain.ObjectHead, error) {
	args := m.Called(ctx, bucket, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ObjectHead), args.Error(1)
}

func (m *MockStorageService) SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockStorageService) StoreObject(ctx context.Context, bucket, key, saveTo string) (int64, error) {
	args := m.Called(ctx, bucket, key, saveTo)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorageService) RenameObject(ctx context.Context, bucket, oldKey, newKey string) error {
	args := m.Called(ctx, bucket, oldKey, newKey)
	return args.Error(0)
}

func (m *MockStorageService) DeleteFolder(ctx context.Context, bucket, folder string) (int, error) {
	args := m.Called(ctx, bucket, folder)
	return args.Int(0), args.Error(1)
}

func (m *MockStorageService) DoesObjectExist(ctx context.Context, bucket, key string) (bool, error) {
	args := m.Called(ctx, bucket, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorageService) FileSize(ctx context.Context, bucket, key string) (int64, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorageService) DoesFolderExist(ctx context.Context, bucket, path, folderName string) (bool, error) {
	args := m.Called(ctx, bucket, path, folderName)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorageService) ExportObjects(ctx context.Context, bucket, prefix string, format domain.ExportFormat, w io.Writer) error {
	args := m.Called(ctx, bucket, prefix, format, w)
	return args.Error(0)
}
