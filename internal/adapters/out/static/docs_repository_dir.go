// internal/adapters/out/static/docs_repository_dir.go
package static

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	docsdom "github.com/azaky/cartserver/internal/domain/docs"
)

// DocsRepositoryDir serves the docs bundle from a local directory
// (default swagger-ui/dist).
type DocsRepositoryDir struct {
	Root string
}

func NewDocsRepositoryDir(root string) *DocsRepositoryDir {
	return &DocsRepositoryDir{Root: strings.TrimSpace(root)}
}

func (r *DocsRepositoryDir) Open(_ context.Context, name string) (io.ReadCloser, docsdom.Meta, error) {
	if r == nil || r.Root == "" {
		return nil, docsdom.Meta{}, errors.New("docs_repository_dir: root is empty")
	}

	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	full := filepath.Join(r.Root, filepath.FromSlash(clean))

	st, err := os.Stat(full)
	if err == nil && st.IsDir() {
		full = filepath.Join(full, "index.html")
		st, err = os.Stat(full)
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, docsdom.Meta{}, docsdom.ErrNotFound
		}
		return nil, docsdom.Meta{}, err
	}
	if st.IsDir() {
		return nil, docsdom.Meta{}, docsdom.ErrNotFound
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, docsdom.Meta{}, err
	}
	return f, docsdom.Meta{
		ContentType: mime.TypeByExtension(filepath.Ext(full)),
		Size:        st.Size(),
		Updated:     st.ModTime(),
	}, nil
}
