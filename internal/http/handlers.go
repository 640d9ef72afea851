package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dsjohal14/corphealth/internal/scope/db"
	"github.com/dsjohal14/corphealth/internal/scope/records"
	"github.com/rs/zerolog"
)

// Handler contains HTTP handlers for the API
type Handler struct {
	store   db.Storage
	records *records.Repository
	logger  zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(store db.Storage, logger zerolog.Logger) *Handler {
	return &Handler{
		store:   store,
		records: records.NewRepository(store),
		logger:  logger,
	}
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeRequestError writes a decoding or validation failure
func writeRequestError(w http.ResponseWriter, err *requestError) {
	writeJSON(w, err.status, ErrorResponse{
		Error:   err.message,
		Code:    err.code,
		Details: err.details,
		Fields:  err.fields,
	})
}
