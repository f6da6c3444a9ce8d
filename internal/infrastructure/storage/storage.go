// Package storage persists uploaded images and returns their public URLs.
package storage

import (
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/feedbackhub/portal/internal/core/ports"
)

const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Config selects and configures the image store backend.
type Config struct {
	Provider string

	LocalDir  string
	URLPrefix string

	Bucket    string
	Endpoint  string
	Region    string
	KeyID     string
	Secret    string
	PublicURL string
}

// New builds the configured image store.
func New(cfg Config) (ports.ImageStore, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderLocal:
		return NewLocalStore(cfg.LocalDir, cfg.URLPrefix)
	case ProviderS3:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("storage: S3_BUCKET is required for provider %q", ProviderS3)
		}
		awsCfg := &aws.Config{
			Region:           aws.String(cfg.Region),
			S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
		}
		if cfg.Endpoint != "" {
			awsCfg.Endpoint = aws.String(cfg.Endpoint)
		}
		if cfg.KeyID != "" {
			awsCfg.Credentials = credentials.NewStaticCredentials(cfg.KeyID, cfg.Secret, "")
		}
		sess, err := session.NewSession(awsCfg)
		if err != nil {
			return nil, fmt.Errorf("storage: aws session: %w", err)
		}
		return NewS3Store(s3.New(sess), cfg.Bucket, cfg.PublicURL), nil
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", cfg.Provider)
	}
}

// validKey rejects keys that could escape the store's namespace.
func validKey(key string) bool {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return false
	}
	return path.Clean(key) == key
}
