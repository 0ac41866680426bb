// internal/domain/docs/store_port.go
package docs

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("docs: not found")

// Meta describes a stored documentation asset.
type Meta struct {
	ContentType string
	Size        int64
	Updated     time.Time
}

// Store serves the static API documentation bundle (swagger-ui).
// name is slash-separated and relative to the bundle root.
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, Meta, error)
}
