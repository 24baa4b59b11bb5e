package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/nkpol/nkpolbackend/config"
	"github.com/nkpol/nkpolbackend/models"
)

// s3API is the slice of the S3 client the adapter uses, so tests can
// substitute a stub.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// R2Adapter stores objects in a Cloudflare R2 bucket through the S3 API.
// Keys are path-style ("folder/name"); public URLs come from the bucket's
// public domain. R2 has no thumbnail derivation, so ThumbnailURL equals
// URL.
type R2Adapter struct {
	client       s3API
	bucket       string
	endpoint     string
	publicDomain string
	folder       string
}

func NewR2Adapter(cfg config.R2Config) (*R2Adapter, error) {
	if cfg.Bucket == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Endpoint == "" {
		return nil, fmt.Errorf("missing R2 config (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // required for R2
	})

	return &R2Adapter{
		client:       client,
		bucket:       cfg.Bucket,
		endpoint:     cfg.Endpoint,
		publicDomain: strings.TrimRight(cfg.PublicDomain, "/"),
		folder:       cfg.Folder,
	}, nil
}

func (a *R2Adapter) UploadFile(ctx context.Context, r io.Reader, size int64, fileName, contentType, folder string) (*models.StorageObject, error) {
	if folder == "" {
		folder = a.folder
	}
	key := a.objectKey(folder, fileName)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	out, err := a.client.PutObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	url := a.publicURL(key)
	return &models.StorageObject{
		URL:          url,
		Key:          key,
		ThumbnailURL: url,
		FileName:     fileName,
		Size:         size,
		ContentType:  contentType,
		ETag:         strings.Trim(aws.ToString(out.ETag), `"`),
		StorageType:  string(config.StorageModeR2),
	}, nil
}

// DeleteFile removes the object by key. S3 DeleteObject succeeds for keys
// that no longer exist, so repeated deletes are idempotent here.
func (a *R2Adapter) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrDeleteFailed, key, err)
	}
	return nil
}

func (a *R2Adapter) GetStorageInfo() Info {
	return Info{
		Type:     string(config.StorageModeR2),
		Endpoint: a.endpoint,
		Bucket:   a.bucket,
		Folder:   a.folder,
	}
}

func (a *R2Adapter) objectKey(folder, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%d-%s%s", strings.Trim(folder, "/"), time.Now().UnixNano(), uuid.New().String(), ext)
}

func (a *R2Adapter) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", a.publicDomain, a.bucket, key)
}
