// Package storage writes exported artifacts to a sink: a local directory, a Google
// Cloud Storage bucket or an S3-compatible bucket.
package storage

import (
	"context"
	"io"
	"strings"
	"time"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}

// Signer is implemented by sinks that can hand out temporary download links.
type Signer interface {
	SignedGetURL(ctx context.Context, objectName string, ttl time.Duration) (string, error)
}

// objectPrefix turns "resumes" into "resumes/"; an empty prefix stays empty.
func objectPrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return p + "/"
}
