package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes artifacts under Dir.
type LocalUploader struct {
	Dir string
}

func NewLocalUploader(dir string) (*LocalUploader, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create directory: %w", err)
	}
	return &LocalUploader{Dir: dir}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	name := filepath.Clean("/" + strings.ReplaceAll(objectName, "\\", "/"))
	path := filepath.Join(u.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("could not create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return path, nil
}
