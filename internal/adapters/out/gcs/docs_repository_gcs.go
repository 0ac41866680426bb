// internal/adapters/out/gcs/docs_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	docsdom "github.com/azaky/cartserver/internal/domain/docs"
)

// DocsRepositoryGCS serves the docs bundle from gs://Bucket/Prefix/...
type DocsRepositoryGCS struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

func NewDocsRepositoryGCS(client *storage.Client, bucket, prefix string) *DocsRepositoryGCS {
	return &DocsRepositoryGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
		Prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}
}

// objectName maps a request name to an object key. Directory requests get
// index.html; ".." segments are cleaned away.
func (r *DocsRepositoryGCS) objectName(name string) string {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" || strings.HasSuffix(name, "/") {
		clean = path.Join(clean, "index.html")
	}
	if r.Prefix == "" {
		return clean
	}
	return r.Prefix + "/" + clean
}

func (r *DocsRepositoryGCS) Open(ctx context.Context, name string) (io.ReadCloser, docsdom.Meta, error) {
	if r == nil || r.Client == nil {
		return nil, docsdom.Meta{}, errors.New("docs_repository_gcs: GCS client is nil")
	}
	if r.Bucket == "" {
		return nil, docsdom.Meta{}, errors.New("docs_repository_gcs: bucket is empty")
	}

	obj := r.objectName(name)
	rd, err := r.Client.Bucket(r.Bucket).Object(obj).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, docsdom.Meta{}, docsdom.ErrNotFound
		}
		return nil, docsdom.Meta{}, fmt.Errorf("docs_repository_gcs: read gs://%s/%s: %w", r.Bucket, obj, err)
	}

	return rd, docsdom.Meta{
		ContentType: rd.Attrs.ContentType,
		Size:        rd.Attrs.Size,
		Updated:     rd.Attrs.LastModified,
	}, nil
}
