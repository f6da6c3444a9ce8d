package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultLocalDir  = "./public/uploads"
	defaultURLPrefix = "/uploads"
)

// LocalStore writes images to a directory that the HTTP server serves
// statically.
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore ensures root exists and returns a store writing into it.
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if root == "" {
		root = defaultLocalDir
	}
	if urlPrefix == "" {
		urlPrefix = defaultURLPrefix
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}
	return &LocalStore{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Dir is the directory images are written to.
func (l *LocalStore) Dir() string { return l.root }

// Save writes body under key and returns its public path. The file is written
// to a temporary name first so readers never see a partial image.
func (l *LocalStore) Save(ctx context.Context, key, _ string, body io.ReadSeeker) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(l.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("storage: write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(l.root, key)); err != nil {
		return "", fmt.Errorf("storage: store image: %w", err)
	}

	return l.urlPrefix + "/" + key, nil
}
