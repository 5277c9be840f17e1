package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ascendo/trainboard/internal/models"
	pkghttp "github.com/ascendo/trainboard/pkg/http"
)

// SectorCatalogInterface is the read-only sector catalog the handler serves.
type SectorCatalogInterface interface {
	List() []models.SectorSummary
	Detail(id uint16) (models.SectorDetail, bool)
	ImagePath(id uint16) (path, contentType string, ok bool)
}

// SectorHandler serves the wall-sector catalog loaded at startup.
type SectorHandler struct {
	catalog SectorCatalogInterface
}

// NewSectorHandler creates a new SectorHandler
func NewSectorHandler(catalog SectorCatalogInterface) *SectorHandler {
	return &SectorHandler{catalog: catalog}
}

// List returns all sectors.
func (h *SectorHandler) List(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, h.catalog.List())
}

// Get returns one sector with its hold map and image dimensions.
func (h *SectorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSectorID(w, r)
	if !ok {
		return
	}

	detail, found := h.catalog.Detail(id)
	if !found {
		pkghttp.WriteNotFound(w, "sector not found")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, detail)
}

// Image streams the sector's wall photograph.
func (h *SectorHandler) Image(w http.ResponseWriter, r *http.Request) {
	id, ok := parseSectorID(w, r)
	if !ok {
		return
	}

	path, contentType, found := h.catalog.ImagePath(id)
	if !found {
		pkghttp.WriteNotFound(w, "sector image not found")
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeFile(w, r, path)
}

func parseSectorID(w http.ResponseWriter, r *http.Request) (uint16, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		pkghttp.WriteBadRequest(w, "BAD_REQUEST", "invalid sector id")
		return 0, false
	}
	return uint16(id), true
}
