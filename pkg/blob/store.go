// Package blob defines the opaque attachment store boundary used by
// assignment responses. Storage itself lives outside this service; only the
// contract and the production adapter are here.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedType indicates an attachment whose detected content type is
// not accepted.
var ErrUnsupportedType = errors.New("unsupported attachment type")

// Store is the opaque blob store keyed by path.
type Store interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
	Download(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

var allowedTypes = []string{
	"application/pdf",
	"application/zip",
	"application/x-zip-compressed",
	"text/plain",
	"image/png",
	"image/jpeg",
}

// ValidateContentType sniffs the reader and rejects attachment types the
// platform does not accept. The reader is consumed; callers should reopen it.
func ValidateContentType(reader io.Reader) error {
	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect attachment type: %w", err)
	}

	for _, allowed := range allowedTypes {
		if mime.Is(allowed) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
}
