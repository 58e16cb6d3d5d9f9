// Package minio implements port.ObjectStorage on minio-go, for MinIO and other
// S3-compatible stores that are not reached through the AWS SDK.
package minio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"stowage/internal/config"
	"stowage/internal/domain"
	"stowage/internal/metrics"
	"stowage/internal/port"
)

const backendName = "minio"

// Client is the subset of the minio client used by the adapter.
type Client interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucketName, policy string) error
	RemoveBucket(ctx context.Context, bucketName string) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	CopyObject(ctx context.Context, dst minio.CopyDestOptions, src minio.CopySrcOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

type minioClientWrapper struct {
	*minio.Client
}

func (c *minioClientWrapper) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return c.Client.GetObject(ctx, bucketName, objectName, opts)
}

type minioStorage struct {
	client Client
	region string
	log    *zap.Logger
}

// NewMinioStorage creates a new minio-backed ObjectStorage implementation.
func NewMinioStorage(cfg *config.StorageConfig, log *zap.Logger) (port.ObjectStorage, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}
	return newStorage(&minioClientWrapper{Client: client}, cfg.Region, log), nil
}

func newStorage(client Client, region string, log *zap.Logger) *minioStorage {
	return &minioStorage{client: client, region: region, log: log.Named("minio")}
}

func (s *minioStorage) Name() string { return backendName }

func (s *minioStorage) observe(op string, start time.Time, err error) {
	metrics.RecordStorageOperation(backendName, op, time.Since(start), err == nil)
	if err != nil {
		s.log.Debug("minio operation failed", zap.String("operation", op), zap.Error(err))
	}
}

func (s *minioStorage) ListBuckets(ctx context.Context) ([]domain.Bucket, error) {
	start := time.Now()
	infos, err := s.client.ListBuckets(ctx)
	s.observe("list_buckets", start, err)
	if err != nil {
		return nil, fmt.Errorf("minio list buckets: %w", err)
	}

	buckets := make([]domain.Bucket, 0, len(infos))
	for _, b := range infos {
		buckets = append(buckets, domain.Bucket{Name: b.Name, CreatedAt: b.CreationDate})
	}
	return buckets, nil
}

func (s *minioStorage) BucketExists(ctx context.Context, bucket string) (bool, error) {
	start := time.Now()
	ok, err := s.client.BucketExists(ctx, bucket)
	s.observe("head_bucket", start, err)
	if err != nil {
		return false, fmt.Errorf("minio bucket exists: %w", err)
	}
	return ok, nil
}

// CreateBucket makes the bucket and expresses the canned ACL as a bucket policy,
// since MinIO has no bucket ACLs. The bucket is removed again when the policy
// cannot be applied.
func (s *minioStorage) CreateBucket(ctx context.Context, bucket string, acl domain.CannedACL) error {
	start := time.Now()
	err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region})
	s.observe("create_bucket", start, err)
	if err != nil {
		return fmt.Errorf("minio make bucket: %w", err)
	}

	policy := aclPolicy(bucket, acl)
	if policy == "" && acl == domain.ACLAuthenticatedRead {
		s.log.Warn("authenticated-read has no minio policy equivalent; bucket left private",
			zap.String("bucket", bucket))
	}
	if policy != "" {
		start = time.Now()
		err = s.client.SetBucketPolicy(ctx, bucket, policy)
		s.observe("put_bucket_policy", start, err)
		if err != nil {
			err = fmt.Errorf("minio set bucket policy: %w", err)
			if rmErr := s.client.RemoveBucket(ctx, bucket); rmErr != nil {
				s.log.Error("failed to remove bucket after policy error",
					zap.String("bucket", bucket), zap.Error(rmErr))
				return errors.Join(err, fmt.Errorf("minio remove bucket: %w", rmErr))
			}
			return err
		}
	}

	s.log.Info("created bucket", zap.String("bucket", bucket), zap.String("acl", string(acl)))
	return nil
}

func (s *minioStorage) DeleteBucket(ctx context.Context, bucket string) error {
	start := time.Now()
	err := s.client.RemoveBucket(ctx, bucket)
	s.observe("delete_bucket", start, err)
	if err != nil {
		return wrapErr("minio remove bucket", err)
	}
	return nil
}

func (s *minioStorage) ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	start := time.Now()

	var objects []domain.ObjectInfo
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			s.observe("list_objects", start, obj.Err)
			return nil, wrapErr("minio list objects", obj.Err)
		}
		objects = append(objects, domain.ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
	}
	s.observe("list_objects", start, nil)
	return objects, nil
}

func (s *minioStorage) PutObject(ctx context.Context, input port.PutObjectInput) (*port.PutObjectOutput, error) {
	start := time.Now()
	info, err := s.client.PutObject(ctx, input.Bucket, input.Key, input.Body, input.Size, minio.PutObjectOptions{
		ContentType: input.ContentType,
	})
	s.observe("put_object", start, err)
	if err != nil {
		return nil, wrapErr("minio put object", err)
	}
	metrics.RecordUpload(info.Size)
	return &port.PutObjectOutput{Location: info.Location, ETag: info.ETag}, nil
}

func (s *minioStorage) Download(ctx context.Context, bucket, key string, w io.WriterAt) (int64, error) {
	start := time.Now()
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		s.observe("get_object", start, err)
		return 0, wrapErr("minio get object", err)
	}
	defer obj.Close()

	n, err := io.Copy(io.NewOffsetWriter(w, 0), obj)
	s.observe("get_object", start, err)
	if err != nil {
		return n, wrapErr("minio download", err)
	}
	metrics.RecordDownload(n)
	return n, nil
}

func (s *minioStorage) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	start := time.Now()
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey},
	)
	s.observe("copy_object", start, err)
	if err != nil {
		return wrapErr("minio copy object", err)
	}
	return nil
}

func (s *minioStorage) DeleteObject(ctx context.Context, bucket, key string) error {
	start := time.Now()
	err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	s.observe("delete_object", start, err)
	if err != nil {
		return wrapErr("minio remove object", err)
	}
	return nil
}

func (s *minioStorage) HeadObject(ctx context.Context, bucket, key string) (*domain.ObjectHead, error) {
	start := time.Now()
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	s.observe("head_object", start, err)
	if err != nil {
		return nil, wrapErr("minio stat object", err)
	}
	return &domain.ObjectHead{
		Bucket:        bucket,
		Key:           key,
		ContentLength: info.Size,
		ContentType:   info.ContentType,
		ETag:          info.ETag,
		LastModified:  info.LastModified,
	}, nil
}

func (s *minioStorage) PresignGetObject(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	start := time.Now()
	u, err := s.client.PresignedGetObject(ctx, bucket, key, expiry, url.Values{})
	s.observe("presign_get_object", start, err)
	if err != nil {
		return "", fmt.Errorf("minio presign: %w", err)
	}
	return u.String(), nil
}

func wrapErr(op string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return resp.StatusCode == http.StatusNotFound
}

// aclPolicy returns the bucket policy JSON equivalent to a canned ACL, or an
// empty string when the bucket should stay private.
func aclPolicy(bucket string, acl domain.CannedACL) string {
	var actions []string
	switch acl {
	case domain.ACLPublicRead:
		actions = []string{"s3:GetObject"}
	case domain.ACLPublicReadWrite:
		actions = []string{"s3:GetObject", "s3:PutObject", "s3:DeleteObject"}
	default:
		return ""
	}

	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": map[string][]string{"AWS": {"*"}},
				"Action":    actions,
				"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucket)},
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
