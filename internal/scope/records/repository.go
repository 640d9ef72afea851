package records

import (
	"context"
	"fmt"

	"github.com/dsjohal14/corphealth/internal/scope/db"
)

// ListLimit caps how many records a list call returns
const ListLimit = 1000

// Repository persists and reads records through a document store.
// It holds no state of its own and is safe for concurrent use.
type Repository struct {
	store db.Storage
}

// NewRepository creates a repository over the given store
func NewRepository(store db.Storage) *Repository {
	return &Repository{store: store}
}

// CreateStatusCheck stores a new status check for clientName
func (r *Repository) CreateStatusCheck(ctx context.Context, clientName string) (StatusCheck, error) {
	check := NewStatusCheck(clientName)
	if err := r.store.Insert(ctx, StatusCollection, check.Document()); err != nil {
		return StatusCheck{}, fmt.Errorf("failed to store status check: %w", err)
	}
	return check, nil
}

// ListStatusChecks returns up to ListLimit stored status checks
func (r *Repository) ListStatusChecks(ctx context.Context) ([]StatusCheck, error) {
	docs, err := r.store.Find(ctx, StatusCollection, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list status checks: %w", err)
	}

	checks := make([]StatusCheck, 0, len(docs))
	for _, doc := range docs {
		check, err := StatusCheckFromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to read status check: %w", err)
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// CreateContactMessage stores a new contact message
func (r *Repository) CreateContactMessage(ctx context.Context, name, email, message string) (ContactMessage, error) {
	msg := NewContactMessage(name, email, message)
	if err := r.store.Insert(ctx, ContactCollection, msg.Document()); err != nil {
		return ContactMessage{}, fmt.Errorf("failed to store contact message: %w", err)
	}
	return msg, nil
}

// ListContactMessages returns up to ListLimit stored contact messages
func (r *Repository) ListContactMessages(ctx context.Context) ([]ContactMessage, error) {
	docs, err := r.store.Find(ctx, ContactCollection, ListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}

	messages := make([]ContactMessage, 0, len(docs))
	for _, doc := range docs {
		msg, err := ContactMessageFromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to read contact message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Migrate creates the record collections on backends that support it
func Migrate(ctx context.Context, store db.Storage) ([]string, error) {
	colls, ok := store.(db.Collections)
	if !ok {
		return nil, nil
	}

	names := []string{StatusCollection, ContactCollection}
	for _, name := range names {
		if err := colls.EnsureCollection(ctx, name); err != nil {
			return nil, err
		}
	}
	return names, nil
}
