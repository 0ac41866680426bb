package gcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocsRepositoryGCS_ObjectName(t *testing.T) {
	r := NewDocsRepositoryGCS(nil, "docs-bucket", "/swagger-ui/dist/")

	assert.Equal(t, "swagger-ui/dist/index.html", r.objectName(""))
	assert.Equal(t, "swagger-ui/dist/index.html", r.objectName("/"))
	assert.Equal(t, "swagger-ui/dist/swagger-ui.css", r.objectName("swagger-ui.css"))
	assert.Equal(t, "swagger-ui/dist/etc/passwd", r.objectName("../../etc/passwd"))
	assert.Equal(t, "swagger-ui/dist/v1/index.html", r.objectName("v1/"))

	bare := NewDocsRepositoryGCS(nil, "docs-bucket", "")
	assert.Equal(t, "api.json", bare.objectName("/api.json"))
}

func TestDocsRepositoryGCS_NotConfigured(t *testing.T) {
	_, _, err := NewDocsRepositoryGCS(nil, "b", "").Open(context.Background(), "index.html")
	assert.Error(t, err)
}
