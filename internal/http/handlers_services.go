package httpapi

import (
	"net/http"

	"github.com/dsjohal14/corphealth/internal/scope/catalog"
)

// HandleListServices returns the fixed service catalog
func (h *Handler) HandleListServices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Services())
}
