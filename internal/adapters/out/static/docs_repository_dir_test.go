package static

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	docsdom "github.com/azaky/cartserver/internal/domain/docs"
)

func TestDocsRepositoryDir_Open(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html>docs</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "api.json"), []byte(`{"openapi":"3.0.0"}`), 0o600))

	r := NewDocsRepositoryDir(root)
	ctx := context.Background()

	rc, meta, err := r.Open(ctx, "")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "<html>docs</html>", string(body))
	assert.Contains(t, meta.ContentType, "text/html")

	rc, meta, err = r.Open(ctx, "api.json")
	require.NoError(t, err)
	_ = rc.Close()
	assert.Equal(t, int64(19), meta.Size)
	assert.Equal(t, "application/json", meta.ContentType)

	_, _, err = r.Open(ctx, "missing.css")
	assert.ErrorIs(t, err, docsdom.ErrNotFound)
}

func TestDocsRepositoryDir_NoEscape(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "dist")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("x"), 0o600))

	_, _, err := NewDocsRepositoryDir(root).Open(context.Background(), "../secret.txt")
	assert.ErrorIs(t, err, docsdom.ErrNotFound)
}
