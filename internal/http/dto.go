// Package httpapi provides HTTP handlers and data transfer objects for the Corporate Health API.
package httpapi

// RootResponse identifies the API
type RootResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status          string `json:"status"`
	StatusChecks    int    `json:"status_checks"`
	ContactMessages int    `json:"contact_messages"`
}

// StatusCheckCreateRequest is the body of POST /api/status
type StatusCheckCreateRequest struct {
	ClientName string `json:"client_name"`
}

// ContactMessageCreateRequest is the body of POST /api/contact
type ContactMessageCreateRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactMessageResponse acknowledges a contact submission
type ContactMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents API error response
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}
