package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Document is a schema-flexible record addressed by collection name
type Document map[string]any

// Storage is the interface for document storage.
// PostgresStore, SQLiteStore and Store (file-based) implement it and are safe
// for concurrent use.
type Storage interface {
	// Insert appends a document to the collection
	Insert(ctx context.Context, collection string, doc Document) error

	// Find returns up to limit of the most recently stored documents in
	// insertion order; limit <= 0 returns everything
	Find(ctx context.Context, collection string, limit int) ([]Document, error)

	// Count returns the number of documents in the collection
	Count(ctx context.Context, collection string) (int, error)

	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying connection or files
	Close() error
}

// Ensure all backends implement Storage
var (
	_ Storage = (*Store)(nil)
	_ Storage = (*PostgresStore)(nil)
	_ Storage = (*SQLiteStore)(nil)
)

var (
	// ErrClosed is returned by operations on a closed store
	ErrClosed = errors.New("store is closed")

	// ErrInvalidCollection is returned for collection names that are not plain identifiers
	ErrInvalidCollection = errors.New("invalid collection name")
)

// StoreError describes a failed store operation
type StoreError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StoreError) Error() string {
	if e.Collection == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Collection: collection, Err: err}
}

// collectionPattern doubles as the table name rule for the SQL backends
var collectionPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// ValidateCollection checks that name is usable as a collection (and table) name
func ValidateCollection(name string) error {
	if !collectionPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

// encodeDocument renders a document as compact JSON
func encodeDocument(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	return json.Marshal(doc)
}

// decodeDocument parses stored JSON, keeping numbers as json.Number so they
// round-trip without float conversion
func decodeDocument(raw []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// tail returns the last limit items of docs
func tail(docs []Document, limit int) []Document {
	if limit > 0 && len(docs) > limit {
		return docs[len(docs)-limit:]
	}
	return docs
}
