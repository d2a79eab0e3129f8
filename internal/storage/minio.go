package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
	Region    string
}

type MinioUploader struct {
	cfg    MinioConfig
	client *minio.Client
}

func NewMinioUploader(cfg MinioConfig) (*MinioUploader, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}
	cfg.Prefix = objectPrefix(cfg.Prefix)
	return &MinioUploader{cfg: cfg, client: cl}, nil
}

func (u *MinioUploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return u.client.MakeBucket(ctx, u.cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (u *MinioUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	key := u.cfg.Prefix + objectName
	// size -1 streams with multipart upload
	if _, err := u.client.PutObject(ctx, u.cfg.Bucket, key, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", u.cfg.Bucket, key), nil
}

func (u *MinioUploader) SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	url, err := u.client.PresignedGetObject(ctx, u.cfg.Bucket, u.cfg.Prefix+objectName, ttl, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}
