package httpapi

import (
	"net/http"
)

// ContactConfirmation is returned to the caller once a message is stored
const ContactConfirmation = "Thank you for your message. We will contact you soon!"

// HandleCreateContact stores a contact-form submission
// Store failures are reported in the contact response shape with success=false
func (h *Handler) HandleCreateContact(w http.ResponseWriter, r *http.Request) {
	fields, reqErr := decodeStrings(w, r, "name", "email", "message")
	if reqErr != nil {
		h.logger.Warn().Str("code", reqErr.code).Msg("invalid contact request")
		writeRequestError(w, reqErr)
		return
	}

	msg, err := h.records.CreateContactMessage(r.Context(), fields["name"], fields["email"], fields["message"])
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to store contact message")
		writeJSON(w, http.StatusInternalServerError, ContactMessageResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	h.logger.Info().
		Str("contact_id", msg.ID).
		Str("email", msg.Email).
		Msg("contact message received")

	writeJSON(w, http.StatusOK, ContactMessageResponse{
		Success: true,
		Message: ContactConfirmation,
		ID:      msg.ID,
	})
}

// HandleListContact returns stored contact messages, capped at records.ListLimit
func (h *Handler) HandleListContact(w http.ResponseWriter, r *http.Request) {
	messages, err := h.records.ListContactMessages(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list contact messages")
		writeError(w, http.StatusInternalServerError, "failed to list contact messages", "STORE_ERROR")
		return
	}

	h.logger.Debug().Int("count", len(messages)).Msg("contact messages listed")
	writeJSON(w, http.StatusOK, messages)
}
