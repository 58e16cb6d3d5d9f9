package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stowage/internal/config"
	"stowage/internal/domain"
	"stowage/internal/port"
	"stowage/internal/service"
	"stowage/mocks"
)

func testStorageConfig() config.StorageConfig {
	return config.StorageConfig{
		Provider:      "s3",
		Region:        "us-east-1",
		DefaultACL:    "public-read",
		PresignExpiry: 3 * time.Minute,
	}
}

func testTransferConfig(t *testing.T) config.TransferConfig {
	return config.TransferConfig{
		StagingDir:     t.TempDir(),
		Concurrency:    2,
		FetchTimeout:   5 * time.Second,
		MaxFetchSizeMB: 1,
	}
}

func newStorageService(t *testing.T) (service.StorageService, *mocks.MockObjectStorage, *mocks.MockAuditRepo) {
	t.Helper()
	storage := new(mocks.MockObjectStorage)
	auditRepo := new(mocks.MockAuditRepo)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()

	storageCfg := testStorageConfig()
	transferCfg := testTransferConfig(t)
	svc := service.NewStorageService(storage, auditRepo, &storageCfg, &transferCfg, zap.NewNop())
	return svc, storage, auditRepo
}

func TestStorageService_RequiredArguments(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
	}{
		{"ListObjects", func() error { _, err := svc.ListObjects(ctx, "", "a/"); return err }},
		{"PushDirectory", func() error { _, err := svc.PushDirectory(ctx, "", "media", ""); return err }},
		{"CopyObject", func() error { return svc.CopyObject(ctx, "a", "k", "b", "") }},
		{"DeleteBucket", func() error { return svc.DeleteBucket(ctx, "") }},
		{"CreateBucket", func() error { return svc.CreateBucket(ctx, "", "") }},
		{"DeleteObject", func() error { return svc.DeleteObject(ctx, "media", "") }},
		{"DeleteObjects", func() error { _, err := svc.DeleteObjects(ctx, "media", nil); return err }},
		{"PutFromURL", func() error {
			_, err := svc.PutFromURL(ctx, service.PutFromURLInput{Bucket: "media", Key: "a.png"})
			return err
		}},
		{"CreateFolder", func() error { _, err := svc.CreateFolder(ctx, "media", "/"); return err }},
		{"UploadFile", func() error { _, err := svc.UploadFile(ctx, "media", "", "k"); return err }},
		{"Upload", func() error {
			_, err := svc.Upload(ctx, service.UploadInput{Bucket: "media", Key: "k"})
			return err
		}},
		{"HeadObject", func() error { _, err := svc.HeadObject(ctx, "", "k"); return err }},
		{"SignedURL", func() error { _, err := svc.SignedURL(ctx, "media", "", 0); return err }},
		{"StoreObject", func() error { _, err := svc.StoreObject(ctx, "media", "k", ""); return err }},
		{"RenameObject", func() error { return svc.RenameObject(ctx, "media", "", "new") }},
		{"DeleteFolder", func() error { _, err := svc.DeleteFolder(ctx, "", "f"); return err }},
		{"FileSize", func() error { _, err := svc.FileSize(ctx, "media", ""); return err }},
		{"DoesFolderExist", func() error { _, err := svc.DoesFolderExist(ctx, "media", "", ""); return err }},
		{"ExportObjects", func() error { return svc.ExportObjects(ctx, "", "", domain.ExportCSV, io.Discard) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), domain.ErrInvalidArgument)
		})
	}
	assert.Empty(t, storage.Calls)
}

func TestStorageService_DoesObjectExist_MissingArgs(t *testing.T) {
	svc, storage, _ := newStorageService(t)

	ok, err := svc.DoesObjectExist(context.Background(), "", "a.txt")
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	storage.AssertNotCalled(t, "HeadObject", mock.Anything, mock.Anything, mock.Anything)
}

func TestStorageService_DoesObjectExist(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("HeadObject", ctx, "media", "a.txt").Return(&domain.ObjectHead{ContentLength: 4}, nil)
	storage.On("HeadObject", ctx, "media", "gone.txt").Return(nil, domain.ErrNotFound)
	storage.On("HeadObject", ctx, "media", "denied.txt").Return(nil, errors.New("access denied"))

	ok, err := svc.DoesObjectExist(ctx, "media", "a.txt")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DoesObjectExist(ctx, "media", "gone.txt")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DoesObjectExist(ctx, "media", "denied.txt")
	assert.ErrorContains(t, err, "access denied")
	assert.False(t, ok)
}

func TestStorageService_FileSize(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()
	storage.On("HeadObject", ctx, "media", "a.txt").Return(&domain.ObjectHead{ContentLength: 42}, nil)

	size, err := svc.FileSize(ctx, "media", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(42), size)
}

func TestStorageService_CreateBucket_DefaultACL(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()
	storage.On("CreateBucket", ctx, "media", domain.ACLPublicRead).Return(nil)

	require.NoError(t, svc.CreateBucket(ctx, "media", ""))
	storage.AssertExpectations(t)
}

func TestStorageService_CreateBucket_InvalidACL(t *testing.T) {
	svc, storage, _ := newStorageService(t)

	err := svc.CreateBucket(context.Background(), "media", "world-writable")
	assert.ErrorIs(t, err, domain.ErrInvalidACL)
	storage.AssertNotCalled(t, "CreateBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestStorageService_CreateBucket_Audited(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	auditRepo := new(mocks.MockAuditRepo)
	storageCfg := testStorageConfig()
	transferCfg := testTransferConfig(t)
	svc := service.NewStorageService(storage, auditRepo, &storageCfg, &transferCfg, zap.NewNop())

	ctx := domain.WithRequestID(context.Background(), "req-42")
	storage.On("CreateBucket", ctx, "vault", domain.ACLPrivate).Return(nil)
	auditRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
		return e.Action == domain.AuditCreateBucket &&
			e.Bucket == "vault" &&
			e.Detail == "acl=private" &&
			e.RequestID == "req-42" &&
			e.Succeeded
	})).Return(nil)

	require.NoError(t, svc.CreateBucket(ctx, "vault", domain.ACLPrivate))
	auditRepo.AssertExpectations(t)
}

func TestStorageService_AuditFailureDoesNotFailOperation(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	auditRepo := new(mocks.MockAuditRepo)
	storageCfg := testStorageConfig()
	transferCfg := testTransferConfig(t)
	svc := service.NewStorageService(storage, auditRepo, &storageCfg, &transferCfg, zap.NewNop())

	ctx := context.Background()
	storage.On("DeleteObject", ctx, "media", "a.txt").Return(nil)
	auditRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down"))

	assert.NoError(t, svc.DeleteObject(ctx, "media", "a.txt"))
	auditRepo.AssertExpectations(t)
}

func TestStorageService_DeleteBucket_EmptiesThenDeletes(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("ListObjects", ctx, "media", "").Return([]domain.ObjectInfo{{Key: "a/"}, {Key: "a/1.txt"}}, nil)
	storage.On("DeleteObject", ctx, "media", "a/").Return(nil)
	storage.On("DeleteObject", ctx, "media", "a/1.txt").Return(nil)
	storage.On("DeleteBucket", ctx, "media").Return(nil)

	require.NoError(t, svc.DeleteBucket(ctx, "media"))
	storage.AssertExpectations(t)
}

func TestStorageService_DeleteBucket_KeepsBucketWhenEmptyingFails(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("ListObjects", ctx, "media", "").Return([]domain.ObjectInfo{{Key: "a.txt"}, {Key: "b.txt"}}, nil)
	storage.On("DeleteObject", ctx, "media", "a.txt").Return(errors.New("locked"))
	storage.On("DeleteObject", ctx, "media", "b.txt").Return(nil)

	err := svc.DeleteBucket(ctx, "media")
	assert.ErrorContains(t, err, "locked")
	storage.AssertCalled(t, "DeleteObject", ctx, "media", "b.txt")
	storage.AssertNotCalled(t, "DeleteBucket", mock.Anything, mock.Anything)
}

func TestStorageService_DeleteObjects(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("DeleteObject", ctx, "media", "a.txt").Return(nil)
	storage.On("DeleteObject", ctx, "media", "b.txt").Return(errors.New("denied"))
	storage.On("DeleteObject", ctx, "media", "c.txt").Return(nil)

	n, err := svc.DeleteObjects(ctx, "media", []string{"a.txt", "b.txt", "c.txt"})
	assert.Equal(t, 2, n)
	assert.ErrorContains(t, err, "denied")
}

func TestStorageService_CreateFolder(t *testing.T) {
	tests := []struct {
		folder string
		want   string
	}{
		{"photos", "photos/"},
		{"photos/", "photos/"},
		{"a/b", "a/b/"},
	}
	for _, tc := range tests {
		t.Run(tc.folder, func(t *testing.T) {
			svc, storage, _ := newStorageService(t)
			ctx := context.Background()
			storage.On("PutObject", ctx, mock.MatchedBy(func(in port.PutObjectInput) bool {
				return in.Bucket == "media" && in.Key == tc.want && in.Size == 0
			})).Return(&port.PutObjectOutput{}, nil)

			key, err := svc.CreateFolder(ctx, "media", tc.folder)
			require.NoError(t, err)
			assert.Equal(t, tc.want, key)
		})
	}
}

func TestStorageService_UploadFile(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o600))

	storage.On("PutObject", ctx, mock.MatchedBy(func(in port.PutObjectInput) bool {
		return in.Key == "docs/notes.txt" &&
			in.Size == 11 &&
			strings.HasPrefix(in.ContentType, "text/plain")
	})).Return(&port.PutObjectOutput{Location: "https://media.s3/docs/notes.txt", ETag: "e1"}, nil)

	obj, err := svc.UploadFile(ctx, "media", path, "docs/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(11), obj.Size)
	assert.Equal(t, "e1", obj.ETag)
}

func TestStorageService_UploadFile_Missing(t *testing.T) {
	svc, storage, _ := newStorageService(t)

	_, err := svc.UploadFile(context.Background(), "media", filepath.Join(t.TempDir(), "nope"), "k")
	assert.ErrorIs(t, err, os.ErrNotExist)
	storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestStorageService_Upload(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()
	body := bytes.NewReader([]byte("abc"))

	storage.On("PutObject", ctx, port.PutObjectInput{
		Bucket: "media", Key: "a.bin", Body: body, ContentType: "application/octet-stream", Size: 3,
	}).Return(&port.PutObjectOutput{ETag: "e"}, nil)

	obj, err := svc.Upload(ctx, service.UploadInput{
		Bucket: "media", Key: "a.bin", Body: body, ContentType: "application/octet-stream", Size: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "a.bin", obj.Key)
}

func TestStorageService_PushDirectory(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "img", "icons"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "a.png"), []byte("png"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "icons", "b.svg"), []byte("<svg/>"), 0o600))

	var (
		mu   sync.Mutex
		keys []string
	)
	storage.On("PutObject", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		mu.Lock()
		defer mu.Unlock()
		keys = append(keys, args.Get(1).(port.PutObjectInput).Key)
	}).Return(&port.PutObjectOutput{}, nil)

	n, err := svc.PushDirectory(ctx, dir, "site", "v1/")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	sort.Strings(keys)
	assert.Equal(t, []string{"v1/img/a.png", "v1/img/icons/b.svg", "v1/index.html"}, keys)
}

func TestStorageService_PushDirectory_NotADirectory(t *testing.T) {
	svc, _, _ := newStorageService(t)

	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, err := svc.PushDirectory(context.Background(), path, "site", "")
	assert.ErrorIs(t, err, domain.ErrNotDirectory)
}

func TestStorageService_PushDirectory_UploadError(t *testing.T) {
	svc, storage, _ := newStorageService(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o600))
	storage.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	n, err := svc.PushDirectory(context.Background(), dir, "site", "")
	assert.Zero(t, n)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestStorageService_SignedURL(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("PresignGetObject", ctx, "media", "a.txt", 3*time.Minute).Return("https://signed/default", nil)
	storage.On("PresignGetObject", ctx, "media", "a.txt", time.Hour).Return("https://signed/hour", nil)

	u, err := svc.SignedURL(ctx, "media", "a.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://signed/default", u)

	u, err = svc.SignedURL(ctx, "media", "a.txt", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://signed/hour", u)

	_, err = svc.SignedURL(ctx, "media", "a.txt", 8*24*time.Hour)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestStorageService_StoreObject(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()
	saveTo := filepath.Join(t.TempDir(), "nested", "dir", "a.txt")

	storage.On("Download", ctx, "media", "a.txt", mock.Anything).Run(func(args mock.Arguments) {
		w := args.Get(3).(io.WriterAt)
		_, _ = w.WriteAt([]byte("payload"), 0)
	}).Return(int64(7), nil)

	n, err := svc.StoreObject(ctx, "media", "a.txt", saveTo)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	data, err := os.ReadFile(saveTo)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestStorageService_StoreObject_RemovesPartialFile(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()
	saveTo := filepath.Join(t.TempDir(), "a.txt")

	storage.On("Download", ctx, "media", "a.txt", mock.Anything).Return(int64(0), domain.ErrNotFound)

	_, err := svc.StoreObject(ctx, "media", "a.txt", saveTo)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, statErr := os.Stat(saveTo)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestStorageService_RenameObject(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("CopyObject", ctx, "media", "old.txt", "media", "new.txt").Return(nil)
	storage.On("DeleteObject", ctx, "media", "old.txt").Return(nil)

	require.NoError(t, svc.RenameObject(ctx, "media", "old.txt", "new.txt"))
	storage.AssertExpectations(t)
}

func TestStorageService_RenameObject_CopyFailureKeepsSource(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("CopyObject", ctx, "media", "old.txt", "media", "new.txt").Return(domain.ErrNotFound)

	err := svc.RenameObject(ctx, "media", "old.txt", "new.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	storage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything, mock.Anything)
}

func TestStorageService_DeleteFolder_ReverseOrder(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("ListObjects", ctx, "media", "photos/").Return([]domain.ObjectInfo{
		{Key: "photos/"}, {Key: "photos/2024/"}, {Key: "photos/2024/a.jpg"},
	}, nil)
	var order []string
	storage.On("DeleteObject", ctx, "media", mock.Anything).Run(func(args mock.Arguments) {
		order = append(order, args.String(2))
	}).Return(nil)

	n, err := svc.DeleteFolder(ctx, "media", "photos")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"photos/2024/a.jpg", "photos/2024/", "photos/"}, order)
}

func TestStorageService_DeleteFolder_AggregatesErrors(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("ListObjects", ctx, "media", "tmp/").Return([]domain.ObjectInfo{{Key: "tmp/"}, {Key: "tmp/a"}, {Key: "tmp/b"}}, nil)
	storage.On("DeleteObject", ctx, "media", "tmp/b").Return(errors.New("b failed"))
	storage.On("DeleteObject", ctx, "media", "tmp/a").Return(errors.New("a failed"))
	storage.On("DeleteObject", ctx, "media", "tmp/").Return(nil)

	n, err := svc.DeleteFolder(ctx, "media", "tmp/")
	assert.Equal(t, 1, n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a failed")
	assert.Contains(t, err.Error(), "b failed")
}

func TestStorageService_DeleteFolder_KeepsSentinelAcrossFailures(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("ListObjects", ctx, "media", "tmp/").Return([]domain.ObjectInfo{{Key: "tmp/a"}, {Key: "tmp/b"}}, nil)
	storage.On("DeleteObject", ctx, "media", mock.Anything).Return(fmt.Errorf("s3 delete: %w", domain.ErrNotFound))

	n, err := svc.DeleteFolder(ctx, "media", "tmp")
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStorageService_DeleteObjects_EmptyKeysStayInvalid(t *testing.T) {
	svc, _, _ := newStorageService(t)
	ctx := context.Background()

	for _, keys := range [][]string{{""}, {"", ""}} {
		n, err := svc.DeleteObjects(ctx, "media", keys)
		assert.Equal(t, 0, n)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "keys=%q", keys)
	}
}

func TestStorageService_DeleteBucket_KeepsSentinelAcrossFailures(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("ListObjects", ctx, "media", "").Return([]domain.ObjectInfo{{Key: "a.txt"}, {Key: "b.txt"}}, nil)
	storage.On("DeleteObject", ctx, "media", mock.Anything).Return(fmt.Errorf("s3 delete: %w", domain.ErrNotFound))

	err := svc.DeleteBucket(ctx, "media")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	storage.AssertNotCalled(t, "DeleteBucket", mock.Anything, mock.Anything)
}

func TestStorageService_ListingFailureIsAudited(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	auditRepo := new(mocks.MockAuditRepo)
	storageCfg := testStorageConfig()
	transferCfg := testTransferConfig(t)
	svc := service.NewStorageService(storage, auditRepo, &storageCfg, &transferCfg, zap.NewNop())

	ctx := context.Background()
	listErr := fmt.Errorf("s3 list: %w", domain.ErrNotFound)
	storage.On("ListObjects", ctx, "gone", mock.Anything).Return(nil, listErr)
	for _, action := range []domain.AuditAction{domain.AuditDeleteBucket, domain.AuditDeleteFolder} {
		auditRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.AuditEntry) bool {
			return e.Action == action && e.Bucket == "gone" && !e.Succeeded
		})).Return(nil).Once()
	}

	assert.ErrorIs(t, svc.DeleteBucket(ctx, "gone"), domain.ErrNotFound)
	_, err := svc.DeleteFolder(ctx, "gone", "photos")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	auditRepo.AssertExpectations(t)
}

func TestStorageService_DoesFolderExist(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("ListObjects", ctx, "media", "app/tmp").Return([]domain.ObjectInfo{
		{Key: "app/tmp/"}, {Key: "app/tmp/test/"}, {Key: "app/tmp/test/x.log"}, {Key: "app/tmp/a+b/"},
	}, nil)

	tests := []struct {
		folder string
		want   bool
	}{
		{"app/tmp/test", true},
		{"app/tmp/test/", true},
		{"app/tmp/tes", false},
		{"tmp/test", false},
		{"app/tmp/a+b", true},
		{"app/tmp/a.b", false},
	}
	for _, tc := range tests {
		t.Run(tc.folder, func(t *testing.T) {
			ok, err := svc.DoesFolderExist(ctx, "media", "app/tmp", tc.folder)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestStorageService_PutFromURL(t *testing.T) {
	storage := new(mocks.MockObjectStorage)
	auditRepo := new(mocks.MockAuditRepo)
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	storageCfg := testStorageConfig()
	transferCfg := testTransferConfig(t)
	svc := service.NewStorageService(storage, auditRepo, &storageCfg, &transferCfg, zap.NewNop())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("fake-png-bytes"))
	}))
	defer srv.Close()

	var uploaded []byte
	storage.On("PutObject", mock.Anything, mock.MatchedBy(func(in port.PutObjectInput) bool {
		return in.Bucket == "media" && in.Key == "test/testing/logo.png" &&
			in.ContentType == "image/png" && in.Size == 14
	})).Run(func(args mock.Arguments) {
		uploaded, _ = io.ReadAll(args.Get(1).(port.PutObjectInput).Body)
	}).Return(&port.PutObjectOutput{Location: "loc", ETag: "etag"}, nil)

	obj, err := svc.PutFromURL(context.Background(), service.PutFromURLInput{
		Bucket:    "media",
		SourceURL: srv.URL + "/logo.png",
		Key:       "logo.png",
		Folder:    "test/testing",
	})
	require.NoError(t, err)
	assert.Equal(t, "test/testing/logo.png", obj.Key)
	assert.Equal(t, int64(14), obj.Size)
	assert.Equal(t, "fake-png-bytes", string(uploaded))

	entries, err := os.ReadDir(transferCfg.StagingDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "staging file must be removed")
}

func TestStorageService_PutFromURL_Non2xx(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := svc.PutFromURL(context.Background(), service.PutFromURLInput{
		Bucket: "media", SourceURL: srv.URL, Key: "a.png",
	})
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestStorageService_PutFromURL_TooLarge(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	big := bytes.Repeat([]byte("x"), 1024*1024+10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Chunked, so the cap is enforced while streaming.
		w.(http.Flusher).Flush()
		_, _ = w.Write(big)
	}))
	defer srv.Close()

	_, err := svc.PutFromURL(context.Background(), service.PutFromURLInput{
		Bucket: "media", SourceURL: srv.URL, Key: "big.bin",
	})
	assert.ErrorIs(t, err, domain.ErrFetchTooLarge)
	storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestStorageService_PutFromURL_RejectsScheme(t *testing.T) {
	svc, _, _ := newStorageService(t)

	for _, src := range []string{"file:///etc/passwd", "ftp://example.com/a", "not a url"} {
		_, err := svc.PutFromURL(context.Background(), service.PutFromURLInput{
			Bucket: "media", SourceURL: src, Key: "a",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, src)
	}
}

func TestStorageService_ExportObjects(t *testing.T) {
	svc, storage, _ := newStorageService(t)
	ctx := context.Background()

	storage.On("ListObjects", ctx, "media", "docs/").Return([]domain.ObjectInfo{{Key: "docs/a.txt", Size: 3}}, nil)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportObjects(ctx, "media", "docs/", domain.ExportCSV, &buf))
	assert.Contains(t, buf.String(), "docs/a.txt")

	err := svc.ExportObjects(ctx, "media", "docs/", "pdf", &buf)
	assert.ErrorIs(t, err, domain.ErrInvalidExportFormat)
}
