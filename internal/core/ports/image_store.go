package ports

import (
	"context"
	"io"
)

// ImageStore persists uploaded images and returns the public reference
// stored on the feedback record.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error)
}
