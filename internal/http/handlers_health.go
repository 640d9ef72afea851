package httpapi

import (
	"net/http"

	"github.com/dsjohal14/corphealth/internal/scope/records"
)

// RootMessage identifies the service on GET /api/
const RootMessage = "Corporate Health API"

// HandleRoot returns the API identity message
func (h *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RootResponse{Message: RootMessage})
}

// HandleHealth returns store reachability and record counts
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("store ping failed")
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}

	resp := HealthResponse{Status: "healthy"}
	var err error
	if resp.StatusChecks, err = h.store.Count(ctx, records.StatusCollection); err == nil {
		resp.ContactMessages, err = h.store.Count(ctx, records.ContactCollection)
	}
	if err != nil {
		h.logger.Warn().Err(err).Msg("store count failed")
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}

	h.logger.Debug().
		Int("status_checks", resp.StatusChecks).
		Int("contact_messages", resp.ContactMessages).
		Msg("health check")
	writeJSON(w, http.StatusOK, resp)
}
