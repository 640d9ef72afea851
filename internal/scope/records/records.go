// Package records defines the status check and contact message records and
// maps them to and from store documents.
package records

import (
	"errors"
	"fmt"
	"time"

	"github.com/dsjohal14/corphealth/internal/scope/db"
	"github.com/google/uuid"
)

// Collection names in the document store
const (
	StatusCollection  = "status_checks"
	ContactCollection = "contact_messages"
)

// ErrMalformedRecord is returned when a stored document cannot be read back as a record
var ErrMalformedRecord = errors.New("malformed record")

// StatusCheck is a health-check ping from a client
type StatusCheck struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Timestamp  Timestamp `json:"timestamp"`
}

// ContactMessage is a contact-form submission
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
}

// NewStatusCheck creates a status check with a fresh id and the current UTC time
func NewStatusCheck(clientName string) StatusCheck {
	return StatusCheck{
		ID:         newID(),
		ClientName: clientName,
		Timestamp:  NewTimestamp(time.Now()),
	}
}

// NewContactMessage creates a contact message with a fresh id and the current UTC time
func NewContactMessage(name, email, message string) ContactMessage {
	return ContactMessage{
		ID:        newID(),
		Name:      name,
		Email:     email,
		Message:   message,
		Timestamp: NewTimestamp(time.Now()),
	}
}

// Document returns the stored form of the status check
func (s StatusCheck) Document() db.Document {
	return db.Document{
		"id":          s.ID,
		"client_name": s.ClientName,
		"timestamp":   s.Timestamp.storedValue(),
	}
}

// Document returns the stored form of the contact message
func (m ContactMessage) Document() db.Document {
	return db.Document{
		"id":        m.ID,
		"name":      m.Name,
		"email":     m.Email,
		"message":   m.Message,
		"timestamp": m.Timestamp.storedValue(),
	}
}

// StatusCheckFromDocument reads a stored status check; fields outside the record are ignored
func StatusCheckFromDocument(doc db.Document) (StatusCheck, error) {
	var (
		s   StatusCheck
		err error
	)
	if s.ID, err = stringField(doc, "id"); err != nil {
		return StatusCheck{}, err
	}
	if s.ClientName, err = stringField(doc, "client_name"); err != nil {
		return StatusCheck{}, err
	}
	if s.Timestamp, err = timestampField(doc); err != nil {
		return StatusCheck{}, err
	}
	return s, nil
}

// ContactMessageFromDocument reads a stored contact message; fields outside the record are ignored
func ContactMessageFromDocument(doc db.Document) (ContactMessage, error) {
	var (
		m   ContactMessage
		err error
	)
	if m.ID, err = stringField(doc, "id"); err != nil {
		return ContactMessage{}, err
	}
	if m.Name, err = stringField(doc, "name"); err != nil {
		return ContactMessage{}, err
	}
	if m.Email, err = stringField(doc, "email"); err != nil {
		return ContactMessage{}, err
	}
	if m.Message, err = stringField(doc, "message"); err != nil {
		return ContactMessage{}, err
	}
	if m.Timestamp, err = timestampField(doc); err != nil {
		return ContactMessage{}, err
	}
	return m, nil
}

func newID() string {
	return uuid.NewString()
}

func stringField(doc db.Document, key string) (string, error) {
	v, ok := doc[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedRecord, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, want string", ErrMalformedRecord, key, v)
	}
	return s, nil
}

func timestampField(doc db.Document) (Timestamp, error) {
	v, ok := doc["timestamp"]
	if !ok {
		return Timestamp{}, fmt.Errorf("%w: missing timestamp", ErrMalformedRecord)
	}
	ts, err := timestampFromDocument(v)
	if err != nil {
		return Timestamp{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return ts, nil
}
