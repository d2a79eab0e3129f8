package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
)

type GCSUploader struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCSUploader(ctx context.Context, bucket, prefix string) (*GCSUploader, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: c, bucket: bucket, prefix: objectPrefix(prefix)}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

func (u *GCSUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	obj := u.client.Bucket(u.bucket).Object(u.prefix + objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	// object stays private; use SignedGetURL to share it
	return fmt.Sprintf("gs://%s/%s", u.bucket, u.prefix+objectName), nil
}

func (u *GCSUploader) SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	return u.client.Bucket(u.bucket).SignedURL(u.prefix+objectName, &gcs.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
		Scheme:  gcs.SigningSchemeV4,
	})
}
