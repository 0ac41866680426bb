// internal/adapters/in/http/handlers/docs_handler.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	docsdom "github.com/azaky/cartserver/internal/domain/docs"
)

// DocsHandler serves the swagger-ui bundle under /docs/*.
type DocsHandler struct {
	store docsdom.Store
	log   *zap.Logger
}

func NewDocsHandler(store docsdom.Store, log *zap.Logger) *DocsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocsHandler{store: store, log: log}
}

func (h *DocsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		http.NotFound(w, r)
		return
	}

	name := chi.URLParam(r, "*")
	if name == "" {
		name = strings.TrimPrefix(r.URL.Path, "/docs")
	}

	rc, meta, err := h.store.Open(r.Context(), name)
	if errors.Is(err, docsdom.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.log.Error("docs open failed", zap.String("name", name), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer rc.Close()

	if meta.ContentType != "" {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	if meta.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	if !meta.Updated.IsZero() {
		w.Header().Set("Last-Modified", meta.Updated.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn("docs write aborted", zap.String("name", name), zap.Error(err))
	}
}
