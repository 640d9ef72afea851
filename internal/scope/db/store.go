// Package db provides the document store behind the Corporate Health API.
package db

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// Store keeps each collection as an append-only JSONL file under dataDir,
// with an in-memory copy loaded on first use
type Store struct {
	dataDir string
	mu      sync.RWMutex
	colls   map[string][]Document // In-memory cache
	files   map[string]*os.File
	closed  bool
	logger  zerolog.Logger
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithLogger sets the logger used for recovery warnings
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a new store with the given data directory
func NewStore(dataDir string, opts ...StoreOption) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dataDir: dataDir,
		colls:   make(map[string][]Document),
		files:   make(map[string]*os.File),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Insert appends a document to the collection file and cache
func (s *Store) Insert(_ context.Context, collection string, doc Document) error {
	if err := ValidateCollection(collection); err != nil {
		return storeErr("insert", collection, err)
	}

	raw, err := encodeDocument(doc)
	if err != nil {
		return storeErr("insert", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storeErr("insert", collection, ErrClosed)
	}

	docs, err := s.loadLocked(collection)
	if err != nil {
		return storeErr("insert", collection, err)
	}

	f, err := s.fileLocked(collection)
	if err != nil {
		return storeErr("insert", collection, err)
	}

	info, err := os.Stat(s.path(collection))
	if err != nil {
		return storeErr("insert", collection, err)
	}

	if _, err := f.Write(append(raw, '\n')); err != nil {
		s.rollbackLocked(collection, info.Size())
		return storeErr("insert", collection, fmt.Errorf("failed to append document: %w", err))
	}

	// Cache the decoded form so reads see the same value types as after a reload
	stored, err := decodeDocument(raw)
	if err != nil {
		return storeErr("insert", collection, err)
	}
	s.colls[collection] = append(docs, stored)
	return nil
}

// Find returns up to limit of the newest documents in insertion order
func (s *Store) Find(_ context.Context, collection string, limit int) ([]Document, error) {
	if err := ValidateCollection(collection); err != nil {
		return nil, storeErr("find", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, storeErr("find", collection, ErrClosed)
	}

	docs, err := s.loadLocked(collection)
	if err != nil {
		return nil, storeErr("find", collection, err)
	}

	docs = tail(docs, limit)
	out := make([]Document, len(docs))
	for i, doc := range docs {
		out[i] = cloneDocument(doc)
	}
	return out, nil
}

// Count returns the number of documents in the collection
func (s *Store) Count(_ context.Context, collection string) (int, error) {
	if err := ValidateCollection(collection); err != nil {
		return 0, storeErr("count", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, storeErr("count", collection, ErrClosed)
	}

	docs, err := s.loadLocked(collection)
	if err != nil {
		return 0, storeErr("count", collection, err)
	}
	return len(docs), nil
}

// Ping checks that the data directory is still there
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return storeErr("ping", "", ErrClosed)
	}
	if _, err := os.Stat(s.dataDir); err != nil {
		return storeErr("ping", "", err)
	}
	return nil
}

// Close syncs and closes all open collection files
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for name, f := range s.files {
		if err := f.Sync(); err != nil && firstErr == nil {
			firstErr = storeErr("close", name, err)
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = storeErr("close", name, err)
		}
	}
	s.files = nil
	return firstErr
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dataDir, collection+".jsonl")
}

// fileLocked returns the append handle for a collection, opening it on first use
func (s *Store) fileLocked(collection string) (*os.File, error) {
	if f, ok := s.files[collection]; ok {
		return f, nil
	}
	f, err := os.OpenFile(s.path(collection), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection file: %w", err)
	}
	s.files[collection] = f
	return f, nil
}

// rollbackLocked cuts a failed append back to size and drops the handle so
// the next insert reopens the file
func (s *Store) rollbackLocked(collection string, size int64) {
	if err := os.Truncate(s.path(collection), size); err != nil {
		s.logger.Error().Err(err).Str("collection", collection).Msg("failed to roll back partial append")
	}
	if f, ok := s.files[collection]; ok {
		_ = f.Close()
		delete(s.files, collection)
	}
}

// loadLocked reads a collection file into the cache once.
// A final line without a newline is a torn append; it is cut off so the
// collection stays readable and later appends start on a fresh line.
func (s *Store) loadLocked(collection string) ([]Document, error) {
	if docs, ok := s.colls[collection]; ok {
		return docs, nil
	}

	path := s.path(collection)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.colls[collection] = []Document{}
		return s.colls[collection], nil
	}
	if err != nil {
		return nil, err
	}

	if end := bytes.LastIndexByte(data, '\n') + 1; end < len(data) {
		s.logger.Warn().
			Str("collection", collection).
			Int("dropped_bytes", len(data)-end).
			Msg("truncating partial record at end of collection file")
		if err := os.Truncate(path, int64(end)); err != nil {
			return nil, fmt.Errorf("failed to truncate partial record: %w", err)
		}
		data = data[:end]
	}

	docs := make([]Document, 0)
	for i, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		doc, err := decodeDocument(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		docs = append(docs, doc)
	}

	s.colls[collection] = docs
	return docs, nil
}

// cloneDocument copies the top level so callers cannot mutate the cache
func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
