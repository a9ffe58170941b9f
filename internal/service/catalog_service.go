package service

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/shopfront/internal/storage"
)

// CatalogService serves the read-only item catalog.
type CatalogService struct {
	catalog storage.Catalog
}

// NewCatalogService creates a catalog service.
func NewCatalogService(catalog storage.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// ListItems handles GET /api/items.
func (s *CatalogService) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}

// GetItem handles GET /api/items/{id}.
func (s *CatalogService) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// SearchItems handles GET /api/items/search?q=.
func (s *CatalogService) SearchItems(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'q' is required")
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Search(q))
}
