// internal/adapters/in/http/handlers/catalog_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	catalogdom "github.com/azaky/cartserver/internal/domain/catalog"
)

// CatalogHandler serves the static store and item lists.
type CatalogHandler struct {
	catalog *catalogdom.Catalog
}

func NewCatalogHandler(c *catalogdom.Catalog) *CatalogHandler {
	if c == nil {
		c = catalogdom.Default()
	}
	return &CatalogHandler{catalog: c}
}

// GET /availableCart
func (h *CatalogHandler) ListStores(w http.ResponseWriter, _ *http.Request) {
	writeData(w, h.catalog.Stores())
}

// GET /availableCart/{storeName}
func (h *CatalogHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "storeName")
	store, err := h.catalog.FindStore(name)
	if errors.Is(err, catalogdom.ErrStoreNotFound) {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("no store with name %s found", name))
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to look up store")
		return
	}
	writeData(w, store)
}

// GET /items
func (h *CatalogHandler) ListItems(w http.ResponseWriter, _ *http.Request) {
	writeData(w, h.catalog.Items())
}
