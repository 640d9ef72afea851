package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore keeps each collection in its own table with a JSON text column
type SQLiteStore struct {
	db      *sql.DB
	ensured sync.Map
}

// NewSQLiteStore opens (or creates) corphealth.db under dataDir
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corphealth.db")

	// WAL mode lets readers proceed while a write is in flight
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One writer at a time; SQLite serialises writes anyway
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Insert appends a document to the collection table
func (s *SQLiteStore) Insert(ctx context.Context, collection string, doc Document) error {
	if err := s.ensure(ctx, collection); err != nil {
		return storeErr("insert", collection, err)
	}

	raw, err := encodeDocument(doc)
	if err != nil {
		return storeErr("insert", collection, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (doc) VALUES (?)`, quoteIdent(collection))
	if _, err := s.db.ExecContext(ctx, query, string(raw)); err != nil {
		return storeErr("insert", collection, err)
	}
	return nil
}

// Find returns up to limit of the newest documents in insertion order
func (s *SQLiteStore) Find(ctx context.Context, collection string, limit int) ([]Document, error) {
	if err := s.ensure(ctx, collection); err != nil {
		return nil, storeErr("find", collection, err)
	}

	// LIMIT -1 means no limit in SQLite
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT doc FROM (
			SELECT seq, doc FROM %s ORDER BY seq DESC LIMIT ?
		)
		ORDER BY seq`, quoteIdent(collection)), limit)
	if err != nil {
		return nil, storeErr("find", collection, err)
	}
	defer func() { _ = rows.Close() }()

	docs := make([]Document, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, storeErr("find", collection, err)
		}
		doc, err := decodeDocument([]byte(raw))
		if err != nil {
			return nil, storeErr("find", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("find", collection, err)
	}
	return docs, nil
}

// Count returns the number of documents in the collection
func (s *SQLiteStore) Count(ctx context.Context, collection string) (int, error) {
	if err := s.ensure(ctx, collection); err != nil {
		return 0, storeErr("count", collection, err)
	}

	var n int
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, quoteIdent(collection)))
	if err := row.Scan(&n); err != nil {
		return 0, storeErr("count", collection, err)
	}
	return n, nil
}

// Ping checks the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return storeErr("ping", "", s.db.PingContext(ctx))
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return storeErr("close", "", s.db.Close())
}

// EnsureCollection creates the collection table if it does not exist yet
func (s *SQLiteStore) EnsureCollection(ctx context.Context, collection string) error {
	return storeErr("ensure", collection, s.ensure(ctx, collection))
}

func (s *SQLiteStore) ensure(ctx context.Context, collection string) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	if _, ok := s.ensured.Load(collection); ok {
		return nil
	}

	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			doc        TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%%Y-%%m-%%dT%%H:%%M:%%fZ', 'now'))
		)`, quoteIdent(collection)))
	if err != nil {
		return fmt.Errorf("failed to create collection table: %w", err)
	}

	s.ensured.Store(collection, struct{}{})
	return nil
}

// quoteIdent quotes a name already checked by ValidateCollection
func quoteIdent(name string) string {
	return `"` + name + `"`
}
