package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

type requestError struct {
	status  int
	message string
	code    string
	details string
	fields  []FieldError
}

// decodeStrings reads a JSON object body and returns the named fields, all of
// which must be present and hold strings. Other fields are ignored.
func decodeStrings(w http.ResponseWriter, r *http.Request, required ...string) (map[string]string, *requestError) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(body)
	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &typeErr):
			return nil, &requestError{
				status:  http.StatusUnprocessableEntity,
				message: "request body must be a JSON object",
				code:    "VALIDATION_ERROR",
				fields:  []FieldError{{Field: "body", Message: "must be an object"}},
			}
		case errors.As(err, &tooLarge):
			return nil, &requestError{
				status:  http.StatusRequestEntityTooLarge,
				message: "request body too large",
				code:    "BODY_TOO_LARGE",
			}
		default:
			return nil, &requestError{
				status:  http.StatusBadRequest,
				message: "invalid JSON",
				code:    "INVALID_JSON",
				details: err.Error(),
			}
		}
	}

	// The body is exactly one JSON value
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, &requestError{
			status:  http.StatusBadRequest,
			message: "invalid JSON",
			code:    "INVALID_JSON",
			details: "unexpected data after JSON body",
		}
	}

	values := make(map[string]string, len(required))
	var fields []FieldError
	for _, name := range required {
		value, ok := raw[name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			fields = append(fields, FieldError{Field: name, Message: "field required"})
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			fields = append(fields, FieldError{Field: name, Message: "must be a string"})
			continue
		}
		values[name] = s
	}

	if len(fields) > 0 {
		return nil, &requestError{
			status:  http.StatusUnprocessableEntity,
			message: "validation failed",
			code:    "VALIDATION_ERROR",
			fields:  fields,
		}
	}
	return values, nil
}
