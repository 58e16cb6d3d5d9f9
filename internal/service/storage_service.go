package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fishy/errbatch"
	"github.com/fishy/wrapreader"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stowage/internal/config"
	"stowage/internal/domain"
	"stowage/internal/inventory"
	"stowage/internal/port"
)

// maxPresignExpiry is the longest lifetime a SigV4 presigned URL may have.
const maxPresignExpiry = 7 * 24 * time.Hour

// UploadInput is the DTO for streaming uploads.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	// Size is the body length in bytes, or -1 when unknown.
	Size int64
}

// PutFromURLInput is the DTO for fetching a remote resource into a bucket.
type PutFromURLInput struct {
	Bucket    string
	SourceURL string
	// StagingDir overrides the configured staging directory.
	StagingDir string
	Key        string
	// Folder is prepended to Key. A missing trailing slash is added.
	Folder string
}

// StorageService defines the object storage façade.
type StorageService interface {
	ListBuckets(ctx context.Context) ([]domain.Bucket, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error)
	PushDirectory(ctx context.Context, localDir, bucket, prefix string) (int, error)
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	DeleteBucket(ctx context.Context, bucket string) error
	CreateBucket(ctx context.Context, bucket string, acl domain.CannedACL) error
	DeleteObject(ctx context.Context, bucket, key string) error
	DeleteObjects(ctx context.Context, bucket string, keys []string) (int, error)
	PutFromURL(ctx context.Context, input PutFromURLInput) (*domain.StoredObject, error)
	CreateFolder(ctx context.Context, bucket, folder string) (string, error)
	UploadFile(ctx context.Context, bucket, sourcePath, key string) (*domain.StoredObject, error)
	Upload(ctx context.Context, input UploadInput) (*domain.StoredObject, error)
	HeadObject(ctx context.Context, bucket, key string) (*domain.ObjectHead, error)
	SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
	StoreObject(ctx context.Context, bucket, key, saveTo string) (int64, error)
	RenameObject(ctx context.Context, bucket, oldKey, newKey string) error
	DeleteFolder(ctx context.Context, bucket, folder string) (int, error)
	DoesObjectExist(ctx context.Context, bucket, key string) (bool, error)
	FileSize(ctx context.Context, bucket, key string) (int64, error)
	DoesFolderExist(ctx context.Context, bucket, path, folderName string) (bool, error)
	ExportObjects(ctx context.Context, bucket, prefix string, format domain.ExportFormat, w io.Writer) error
}

type storageService struct {
	storage       port.ObjectStorage
	audit         *auditRecorder
	defaultACL    domain.CannedACL
	presignExpiry time.Duration
	transfer      config.TransferConfig
	httpClient    *http.Client
	log           *zap.Logger
}

// NewStorageService creates a new StorageService implementation.
func NewStorageService(
	storage port.ObjectStorage,
	auditRepo port.AuditRepository,
	storageCfg *config.StorageConfig,
	transferCfg *config.TransferConfig,
	log *zap.Logger,
) StorageService {
	log = log.Named("storage_service")
	return &storageService{
		storage:       storage,
		audit:         &auditRecorder{repo: auditRepo, log: log},
		defaultACL:    domain.CannedACL(storageCfg.DefaultACL),
		presignExpiry: storageCfg.PresignExpiry,
		transfer:      *transferCfg,
		httpClient:    &http.Client{Timeout: transferCfg.FetchTimeout},
		log:           log,
	}
}

func (s *storageService) ListBuckets(ctx context.Context) ([]domain.Bucket, error) {
	return s.storage.ListBuckets(ctx)
}

func (s *storageService) ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	if err := requireArgs("bucket", bucket); err != nil {
		return nil, err
	}
	return s.storage.ListObjects(ctx, bucket, prefix)
}

func (s *storageService) PushDirectory(ctx context.Context, localDir, bucket, prefix string) (int, error) {
	if err := requireArgs("source directory", localDir, "bucket", bucket); err != nil {
		return 0, err
	}

	info, err := os.Stat(localDir)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", localDir, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s", domain.ErrNotDirectory, localDir)
	}

	var files []string
	err = filepath.WalkDir(localDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking %s: %w", localDir, err)
	}

	keys := make([]string, len(files))
	for i, path := range files {
		rel, err := filepath.Rel(localDir, path)
		if err != nil {
			return 0, fmt.Errorf("relative path of %s: %w", path, err)
		}
		keys[i] = joinKey(prefix, filepath.ToSlash(rel))
	}

	var uploaded atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.transfer.Concurrency, 1))
	for i, path := range files {
		key := keys[i]
		g.Go(func() error {
			if _, err := s.uploadPath(gctx, bucket, path, key); err != nil {
				return err
			}
			uploaded.Add(1)
			return nil
		})
	}
	err = g.Wait()

	n := int(uploaded.Load())
	s.audit.record(ctx, domain.AuditPushDirectory, bucket, prefix,
		fmt.Sprintf("source=%s uploaded=%d of %d", localDir, n, len(files)), err)
	if err != nil {
		return n, fmt.Errorf("pushing %s: %w", localDir, err)
	}
	s.log.Info("pushed directory",
		zap.String("source", localDir),
		zap.String("bucket", bucket),
		zap.String("prefix", prefix),
		zap.Int("files", n),
	)
	return n, nil
}

func (s *storageService) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	if err := requireArgs(
		"source bucket", srcBucket,
		"source key", srcKey,
		"destination bucket", dstBucket,
		"destination key", dstKey,
	); err != nil {
		return err
	}

	err := s.storage.CopyObject(ctx, srcBucket, srcKey, dstBucket, dstKey)
	s.audit.record(ctx, domain.AuditCopyObject, dstBucket, dstKey,
		fmt.Sprintf("source=%s/%s", srcBucket, srcKey), err)
	return err
}

// DeleteBucket empties the bucket and then removes it. The bucket itself is
// left in place when any object could not be deleted.
func (s *storageService) DeleteBucket(ctx context.Context, bucket string) error {
	if err := requireArgs("bucket", bucket); err != nil {
		return err
	}

	objects, err := s.storage.ListObjects(ctx, bucket, "")
	if err != nil {
		s.audit.record(ctx, domain.AuditDeleteBucket, bucket, "", "listing failed", err)
		return err
	}

	var batch errbatch.ErrBatch
	for _, obj := range objects {
		batch.Add(s.storage.DeleteObject(ctx, bucket, obj.Key))
	}
	if err := compileBatch(&batch); err != nil {
		err = fmt.Errorf("emptying bucket %s: %w", bucket, err)
		s.audit.record(ctx, domain.AuditDeleteBucket, bucket, "", "emptying failed", err)
		return err
	}

	err = s.storage.DeleteBucket(ctx, bucket)
	s.audit.record(ctx, domain.AuditDeleteBucket, bucket, "",
		fmt.Sprintf("objects_deleted=%d", len(objects)), err)
	if err != nil {
		return err
	}
	s.log.Info("deleted bucket", zap.String("bucket", bucket), zap.Int("objects", len(objects)))
	return nil
}

func (s *storageService) CreateBucket(ctx context.Context, bucket string, acl domain.CannedACL) error {
	if err := requireArgs("bucket", bucket); err != nil {
		return err
	}
	if acl == "" {
		acl = s.defaultACL
	}
	if !domain.AllowedACLs[acl] {
		return fmt.Errorf("%w: %q", domain.ErrInvalidACL, acl)
	}

	err := s.storage.CreateBucket(ctx, bucket, acl)
	s.audit.record(ctx, domain.AuditCreateBucket, bucket, "", "acl="+string(acl), err)
	return err
}

func (s *storageService) DeleteObject(ctx context.Context, bucket, key string) error {
	if err := requireArgs("bucket", bucket, "key", key); err != nil {
		return err
	}

	err := s.storage.DeleteObject(ctx, bucket, key)
	s.audit.record(ctx, domain.AuditDeleteObject, bucket, key, "", err)
	return err
}

func (s *storageService) DeleteObjects(ctx context.Context, bucket string, keys []string) (int, error) {
	if err := requireArgs("bucket", bucket); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, invalidArg("at least one key is required")
	}

	deleted := 0
	var batch errbatch.ErrBatch
	for _, key := range keys {
		if key == "" {
			batch.Add(invalidArg("empty key in batch"))
			continue
		}
		if err := s.storage.DeleteObject(ctx, bucket, key); err != nil {
			batch.Add(err)
			continue
		}
		deleted++
	}
	err := compileBatch(&batch)
	s.audit.record(ctx, domain.AuditDeleteObjects, bucket, "",
		fmt.Sprintf("deleted=%d of %d", deleted, len(keys)), err)
	return deleted, err
}

// PutFromURL downloads the source into a staging file and uploads it. The
// staging file is removed whether or not the upload succeeds.
func (s *storageService) PutFromURL(ctx context.Context, input PutFromURLInput) (*domain.StoredObject, error) {
	if err := requireArgs("bucket", input.Bucket, "source url", input.SourceURL, "key", input.Key); err != nil {
		return nil, err
	}
	src, err := url.Parse(input.SourceURL)
	if err != nil || (src.Scheme != "http" && src.Scheme != "https") || src.Host == "" {
		return nil, invalidArg("source url must be an absolute http or https URL")
	}

	key := joinKey(input.Folder, input.Key)
	obj, err := s.fetchAndUpload(ctx, input.Bucket, src.String(), input.StagingDir, key)
	s.audit.record(ctx, domain.AuditFetchObject, input.Bucket, key, "source="+src.Redacted(), err)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (s *storageService) fetchAndUpload(ctx context.Context, bucket, sourceURL, stagingDir, key string) (*domain.StoredObject, error) {
	if stagingDir == "" {
		stagingDir = s.transfer.StagingDir
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}

	fetchCtx := ctx
	if s.transfer.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.transfer.FetchTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, sourceURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building fetch request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	maxBytes := s.transfer.MaxFetchBytes()
	body := wrapreader.Wrap(io.LimitReader(resp.Body, maxBytes+1), resp.Body)
	defer body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: remote returned %s", domain.ErrFetchFailed, resp.Status)
	}
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrFetchTooLarge, resp.ContentLength)
	}

	stagingPath := filepath.Join(stagingDir, uuid.NewString()+filepath.Ext(key))
	f, err := os.Create(stagingPath)
	if err != nil {
		return nil, fmt.Errorf("creating staging file: %w", err)
	}
	defer func() {
		if err := os.Remove(stagingPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("failed to remove staging file", zap.String("path", stagingPath), zap.Error(err))
		}
	}()
	defer f.Close()

	n, err := io.Copy(f, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if n > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", domain.ErrFetchTooLarge, maxBytes)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding staging file: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType, err = detectContentType(f, key)
		if err != nil {
			return nil, err
		}
	}

	out, err := s.storage.PutObject(ctx, port.PutObjectInput{
		Bucket:      bucket,
		Key:         key,
		Body:        f,
		ContentType: contentType,
		Size:        n,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}
	s.log.Info("stored remote object",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int64("size", n),
	)
	return &domain.StoredObject{Bucket: bucket, Key: key, Location: out.Location, ETag: out.ETag, Size: n}, nil
}

// CreateFolder writes the zero-byte marker object for folder and returns its key.
func (s *storageService) CreateFolder(ctx context.Context, bucket, folder string) (string, error) {
	trimmed := strings.TrimSuffix(folder, domain.FolderDelimiter)
	if err := requireArgs("bucket", bucket, "folder", trimmed); err != nil {
		return "", err
	}

	key := trimmed + domain.FolderDelimiter
	_, err := s.storage.PutObject(ctx, port.PutObjectInput{
		Bucket: bucket,
		Key:    key,
		Body:   strings.NewReader(""),
		Size:   0,
	})
	s.audit.record(ctx, domain.AuditCreateFolder, bucket, key, "", err)
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *storageService) UploadFile(ctx context.Context, bucket, sourcePath, key string) (*domain.StoredObject, error) {
	if err := requireArgs("bucket", bucket, "source file", sourcePath, "key", key); err != nil {
		return nil, err
	}

	obj, err := s.uploadPath(ctx, bucket, sourcePath, key)
	s.audit.record(ctx, domain.AuditPutObject, bucket, key, "source="+sourcePath, err)
	return obj, err
}

func (s *storageService) Upload(ctx context.Context, input UploadInput) (*domain.StoredObject, error) {
	if err := requireArgs("bucket", input.Bucket, "key", input.Key); err != nil {
		return nil, err
	}
	if input.Body == nil {
		return nil, invalidArg("body is required")
	}

	out, err := s.storage.PutObject(ctx, port.PutObjectInput{
		Bucket:      input.Bucket,
		Key:         input.Key,
		Body:        input.Body,
		ContentType: input.ContentType,
		Size:        input.Size,
	})
	s.audit.record(ctx, domain.AuditPutObject, input.Bucket, input.Key, "", err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUploadFailed, err)
	}
	return &domain.StoredObject{
		Bucket:   input.Bucket,
		Key:      input.Key,
		Location: out.Location,
		ETag:     out.ETag,
		Size:     input.Size,
	}, nil
}

func (s *storageService) uploadPath(ctx context.Context, bucket, path, key string) (*domain.StoredObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, invalidArg(path + " is a directory")
	}

	contentType, err := detectContentType(f, path)
	if err != nil {
		return nil, err
	}

	out, err := s.storage.PutObject(ctx, port.PutObjectInput{
		Bucket:      bucket,
		Key:         key,
		Body:        f,
		ContentType: contentType,
		Size:        info.Size(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", domain.ErrUploadFailed, path, err)
	}
	return &domain.StoredObject{
		Bucket:   bucket,
		Key:      key,
		Location: out.Location,
		ETag:     out.ETag,
		Size:     info.Size(),
	}, nil
}

func (s *storageService) HeadObject(ctx context.Context, bucket, key string) (*domain.ObjectHead, error) {
	if err := requireArgs("bucket", bucket, "key", key); err != nil {
		return nil, err
	}
	return s.storage.HeadObject(ctx, bucket, key)
}

func (s *storageService) SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if err := requireArgs("bucket", bucket, "key", key); err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = s.presignExpiry
	}
	if expiry > maxPresignExpiry {
		return "", invalidArg(fmt.Sprintf("expiry must not exceed %s", maxPresignExpiry))
	}
	return s.storage.PresignGetObject(ctx, bucket, key, expiry)
}

// StoreObject downloads the object to saveTo. A partially written file is
// removed on failure.
func (s *storageService) StoreObject(ctx context.Context, bucket, key, saveTo string) (int64, error) {
	if err := requireArgs("bucket", bucket, "key", key, "destination path", saveTo); err != nil {
		return 0, err
	}

	if dir := filepath.Dir(saveTo); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(saveTo)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", saveTo, err)
	}

	n, err := s.storage.Download(ctx, bucket, key, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing %s: %w", saveTo, closeErr)
	}
	if err != nil {
		_ = os.Remove(saveTo)
		return 0, err
	}
	return n, nil
}

// RenameObject copies oldKey to newKey and deletes oldKey only after the copy
// succeeded.
func (s *storageService) RenameObject(ctx context.Context, bucket, oldKey, newKey string) error {
	if err := requireArgs("bucket", bucket, "old key", oldKey, "new key", newKey); err != nil {
		return err
	}
	if oldKey == newKey {
		return nil
	}

	err := s.storage.CopyObject(ctx, bucket, oldKey, bucket, newKey)
	if err == nil {
		err = s.storage.DeleteObject(ctx, bucket, oldKey)
		if err != nil {
			err = fmt.Errorf("copied to %s but deleting %s failed: %w", newKey, oldKey, err)
		}
	}
	s.audit.record(ctx, domain.AuditRenameObject, bucket, newKey, "from="+oldKey, err)
	return err
}

// DeleteFolder removes every object under folder, children before the folder
// marker, and returns how many were deleted.
func (s *storageService) DeleteFolder(ctx context.Context, bucket, folder string) (int, error) {
	trimmed := strings.TrimSuffix(folder, domain.FolderDelimiter)
	if err := requireArgs("bucket", bucket, "folder", trimmed); err != nil {
		return 0, err
	}
	prefix := trimmed + domain.FolderDelimiter

	objects, err := s.storage.ListObjects(ctx, bucket, prefix)
	if err != nil {
		s.audit.record(ctx, domain.AuditDeleteFolder, bucket, prefix, "listing failed", err)
		return 0, err
	}

	deleted := 0
	var batch errbatch.ErrBatch
	for i := len(objects) - 1; i >= 0; i-- {
		if err := s.storage.DeleteObject(ctx, bucket, objects[i].Key); err != nil {
			batch.Add(err)
			continue
		}
		deleted++
	}
	err = compileBatch(&batch)
	s.audit.record(ctx, domain.AuditDeleteFolder, bucket, prefix,
		fmt.Sprintf("deleted=%d of %d", deleted, len(objects)), err)
	return deleted, err
}

func (s *storageService) DoesObjectExist(ctx context.Context, bucket, key string) (bool, error) {
	if err := requireArgs("bucket", bucket, "key", key); err != nil {
		return false, err
	}

	_, err := s.storage.HeadObject(ctx, bucket, key)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *storageService) FileSize(ctx context.Context, bucket, key string) (int64, error) {
	head, err := s.HeadObject(ctx, bucket, key)
	if err != nil {
		return 0, err
	}
	return head.ContentLength, nil
}

// DoesFolderExist lists objects under path and reports whether any key starts
// with folderName followed by the folder delimiter. folderName is matched
// literally and must include path.
func (s *storageService) DoesFolderExist(ctx context.Context, bucket, path, folderName string) (bool, error) {
	trimmed := strings.TrimSuffix(folderName, domain.FolderDelimiter)
	if err := requireArgs("bucket", bucket, "folder name", trimmed); err != nil {
		return false, err
	}

	objects, err := s.storage.ListObjects(ctx, bucket, path)
	if err != nil {
		return false, err
	}

	re := regexp.MustCompile("^" + regexp.QuoteMeta(trimmed+domain.FolderDelimiter))
	for _, obj := range objects {
		if re.MatchString(obj.Key) {
			return true, nil
		}
	}
	return false, nil
}

func (s *storageService) ExportObjects(ctx context.Context, bucket, prefix string, format domain.ExportFormat, w io.Writer) error {
	if err := requireArgs("bucket", bucket); err != nil {
		return err
	}
	if format != domain.ExportCSV && format != domain.ExportXLSX {
		return fmt.Errorf("%w: %q", domain.ErrInvalidExportFormat, format)
	}

	objects, err := s.storage.ListObjects(ctx, bucket, prefix)
	if err != nil {
		return err
	}
	return inventory.Write(w, format, bucket, objects)
}

// joinKey joins a folder prefix and a name with exactly one delimiter.
// compileBatch returns nil, the single collected error, or a joined error
// that still matches every collected sentinel through errors.Is.
func compileBatch(batch *errbatch.ErrBatch) error {
	errs := batch.GetErrors()
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return strings.TrimSuffix(prefix, domain.FolderDelimiter) + domain.FolderDelimiter +
		strings.TrimPrefix(name, domain.FolderDelimiter)
}

// detectContentType guesses from the extension first, then from the first 512
// bytes. The reader is rewound afterwards.
func detectContentType(r io.ReadSeeker, name string) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct, nil
	}

	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("reading file header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seeking file: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}
