package httpapi

import (
	"net/http"
)

// HandleCreateStatus records a status check ping
// Requires client_name; id and timestamp are generated server-side
func (h *Handler) HandleCreateStatus(w http.ResponseWriter, r *http.Request) {
	fields, reqErr := decodeStrings(w, r, "client_name")
	if reqErr != nil {
		h.logger.Warn().Str("code", reqErr.code).Msg("invalid status check request")
		writeRequestError(w, reqErr)
		return
	}

	check, err := h.records.CreateStatusCheck(r.Context(), fields["client_name"])
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to store status check")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "failed to store status check",
			Code:    "STORE_ERROR",
			Details: err.Error(),
		})
		return
	}

	h.logger.Info().
		Str("status_id", check.ID).
		Str("client_name", check.ClientName).
		Msg("status check recorded")

	writeJSON(w, http.StatusOK, check)
}

// HandleListStatus returns stored status checks, capped at records.ListLimit
func (h *Handler) HandleListStatus(w http.ResponseWriter, r *http.Request) {
	checks, err := h.records.ListStatusChecks(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list status checks")
		writeError(w, http.StatusInternalServerError, "failed to list status checks", "STORE_ERROR")
		return
	}

	h.logger.Debug().Int("count", len(checks)).Msg("status checks listed")
	writeJSON(w, http.StatusOK, checks)
}
