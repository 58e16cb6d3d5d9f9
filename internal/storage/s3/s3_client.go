package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"stowage/internal/config"
	"stowage/internal/domain"
	"stowage/internal/metrics"
	"stowage/internal/port"
)

const backendName = "s3"

// API is the subset of *s3.Client used by the adapter.
type API interface {
	manager.UploadAPIClient
	manager.DownloadAPIClient
	s3.ListObjectsV2APIClient
	s3.ListBucketsAPIClient
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeleteBucket(ctx context.Context, params *s3.DeleteBucketInput, optFns ...func(*s3.Options)) (*s3.DeleteBucketOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Presigner is the subset of *s3.PresignClient used by the adapter.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	_ API       = (*s3.Client)(nil)
	_ Presigner = (*s3.PresignClient)(nil)
)

type s3Client struct {
	api        API
	presigner  Presigner
	uploader   *manager.Uploader
	downloader *manager.Downloader
	region     string
	log        *zap.Logger
}

// NewS3Client creates a new S3-backed ObjectStorage implementation.
func NewS3Client(cfg *config.StorageConfig, log *zap.Logger) (port.ObjectStorage, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return newClient(client, s3.NewPresignClient(client), cfg.Region, log), nil
}

func newClient(api API, presigner Presigner, region string, log *zap.Logger) *s3Client {
	return &s3Client{
		api:        api,
		presigner:  presigner,
		uploader:   manager.NewUploader(api),
		downloader: manager.NewDownloader(api),
		region:     region,
		log:        log.Named("s3"),
	}
}

func (c *s3Client) Name() string { return backendName }

func (c *s3Client) observe(op string, start time.Time, err error) {
	metrics.RecordStorageOperation(backendName, op, time.Since(start), err == nil)
	if err != nil {
		c.log.Debug("s3 operation failed", zap.String("operation", op), zap.Error(err))
	}
}

func (c *s3Client) ListBuckets(ctx context.Context) ([]domain.Bucket, error) {
	start := time.Now()

	var buckets []domain.Bucket
	p := s3.NewListBucketsPaginator(c.api, &s3.ListBucketsInput{})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			c.observe("list_buckets", start, err)
			return nil, fmt.Errorf("s3 list buckets: %w", err)
		}
		for _, b := range page.Buckets {
			buckets = append(buckets, domain.Bucket{
				Name:      aws.ToString(b.Name),
				CreatedAt: aws.ToTime(b.CreationDate),
			})
		}
	}
	c.observe("list_buckets", start, nil)
	return buckets, nil
}

func (c *s3Client) BucketExists(ctx context.Context, bucket string) (bool, error) {
	start := time.Now()
	_, err := c.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		if isNotFound(err) {
			c.observe("head_bucket", start, nil)
			return false, nil
		}
		c.observe("head_bucket", start, err)
		return false, fmt.Errorf("s3 head bucket: %w", err)
	}
	c.observe("head_bucket", start, nil)
	return true, nil
}

func (c *s3Client) CreateBucket(ctx context.Context, bucket string, acl domain.CannedACL) error {
	start := time.Now()

	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
		ACL:    types.BucketCannedACL(acl),
	}
	// Buckets default to BucketOwnerEnforced, which rejects any ACL but private.
	if acl != "" && acl != domain.ACLPrivate {
		input.ObjectOwnership = types.ObjectOwnershipObjectWriter
	}
	if c.region != "" && c.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(c.region),
		}
	}

	_, err := c.api.CreateBucket(ctx, input)
	c.observe("create_bucket", start, err)
	if err != nil {
		return fmt.Errorf("s3 create bucket: %w", err)
	}
	c.log.Info("created bucket", zap.String("bucket", bucket), zap.String("acl", string(acl)))
	return nil
}

func (c *s3Client) DeleteBucket(ctx context.Context, bucket string) error {
	start := time.Now()
	_, err := c.api.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)})
	c.observe("delete_bucket", start, err)
	if err != nil {
		return wrapErr("s3 delete bucket", err)
	}
	return nil
}

func (c *s3Client) ListObjects(ctx context.Context, bucket, prefix string) ([]domain.ObjectInfo, error) {
	start := time.Now()

	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var objects []domain.ObjectInfo
	p := s3.NewListObjectsV2Paginator(c.api, input)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			c.observe("list_objects", start, err)
			return nil, wrapErr("s3 list objects", err)
		}
		for _, o := range page.Contents {
			objects = append(objects, domain.ObjectInfo{
				Key:          aws.ToString(o.Key),
				Size:         aws.ToInt64(o.Size),
				ETag:         strings.Trim(aws.ToString(o.ETag), `"`),
				LastModified: aws.ToTime(o.LastModified),
			})
		}
	}
	c.observe("list_objects", start, nil)
	return objects, nil
}

func (c *s3Client) PutObject(ctx context.Context, input port.PutObjectInput) (*port.PutObjectOutput, error) {
	start := time.Now()

	params := &s3.PutObjectInput{
		Bucket: aws.String(input.Bucket),
		Key:    aws.String(input.Key),
		Body:   input.Body,
	}
	if input.ContentType != "" {
		params.ContentType = aws.String(input.ContentType)
	}

	result, err := c.uploader.Upload(ctx, params)
	c.observe("put_object", start, err)
	if err != nil {
		return nil, wrapErr("s3 upload", err)
	}
	metrics.RecordUpload(input.Size)

	return &port.PutObjectOutput{
		Location: result.Location,
		ETag:     strings.Trim(aws.ToString(result.ETag), `"`),
	}, nil
}

func (c *s3Client) Download(ctx context.Context, bucket, key string, w io.WriterAt) (int64, error) {
	start := time.Now()
	n, err := c.downloader.Download(ctx, w, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	c.observe("get_object", start, err)
	if err != nil {
		return n, wrapErr("s3 download", err)
	}
	metrics.RecordDownload(n)
	return n, nil
}

func (c *s3Client) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	start := time.Now()
	_, err := c.api.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(copySource(srcBucket, srcKey)),
	})
	c.observe("copy_object", start, err)
	if err != nil {
		return wrapErr("s3 copy", err)
	}
	return nil
}

func (c *s3Client) DeleteObject(ctx context.Context, bucket, key string) error {
	start := time.Now()
	_, err := c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	c.observe("delete_object", start, err)
	if err != nil {
		return wrapErr("s3 delete", err)
	}
	return nil
}

func (c *s3Client) HeadObject(ctx context.Context, bucket, key string) (*domain.ObjectHead, error) {
	start := time.Now()
	out, err := c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	c.observe("head_object", start, err)
	if err != nil {
		return nil, wrapErr("s3 head object", err)
	}

	return &domain.ObjectHead{
		Bucket:        bucket,
		Key:           key,
		ContentLength: aws.ToInt64(out.ContentLength),
		ContentType:   aws.ToString(out.ContentType),
		ETag:          strings.Trim(aws.ToString(out.ETag), `"`),
		LastModified:  aws.ToTime(out.LastModified),
	}, nil
}

func (c *s3Client) PresignGetObject(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	start := time.Now()
	result, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	c.observe("presign_get_object", start, err)
	if err != nil {
		return "", fmt.Errorf("s3 presign: %w", err)
	}
	return result.URL, nil
}

// copySource builds the URL-encoded bucket/key value CopyObject expects.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return bucket + "/" + strings.Join(segments, "/")
}

func wrapErr(op string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isNotFound(err error) bool {
	var (
		noSuchKey    *types.NoSuchKey
		noSuchBucket *types.NoSuchBucket
		notFound     *types.NotFound
	)
	if errors.As(err, &noSuchKey) || errors.As(err, &noSuchBucket) || errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}
	return false
}
