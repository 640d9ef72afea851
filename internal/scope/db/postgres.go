package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps each collection in its own table with a JSONB document column
type PostgresStore struct {
	pool *pgxpool.Pool

	// ensured records tables already created by this process
	ensured sync.Map
}

// NewPostgresStore creates a store backed by the given pool.
// The store takes ownership of the pool and closes it on Close.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Insert appends a document to the collection table
func (s *PostgresStore) Insert(ctx context.Context, collection string, doc Document) error {
	if err := s.ensure(ctx, collection); err != nil {
		return storeErr("insert", collection, err)
	}

	raw, err := encodeDocument(doc)
	if err != nil {
		return storeErr("insert", collection, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (doc) VALUES ($1::jsonb)`, table(collection))
	if _, err := s.pool.Exec(ctx, query, string(raw)); err != nil {
		return storeErr("insert", collection, err)
	}
	return nil
}

// Find returns up to limit of the newest documents in insertion order
func (s *PostgresStore) Find(ctx context.Context, collection string, limit int) ([]Document, error) {
	if err := s.ensure(ctx, collection); err != nil {
		return nil, storeErr("find", collection, err)
	}

	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.pool.Query(ctx, fmt.Sprintf(`
			SELECT doc::text FROM (
				SELECT seq, doc FROM %s ORDER BY seq DESC LIMIT $1
			) recent
			ORDER BY seq`, table(collection)), limit)
	} else {
		rows, err = s.pool.Query(ctx, fmt.Sprintf(`SELECT doc::text FROM %s ORDER BY seq`, table(collection)))
	}
	if err != nil {
		return nil, storeErr("find", collection, err)
	}
	defer rows.Close()

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
func (s *PostgresStore) Count(ctx context.Context, collection string) (int, error) {
	if err := s.ensure(ctx, collection); err != nil {
		return 0, storeErr("count", collection, err)
	}

	var n int
	if err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT count(*) FROM %s`, table(collection))).Scan(&n); err != nil {
		return 0, storeErr("count", collection, err)
	}
	return n, nil
}

// Ping checks the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return storeErr("ping", "", s.pool.Ping(ctx))
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// EnsureCollection creates the collection table if it does not exist yet
func (s *PostgresStore) EnsureCollection(ctx context.Context, collection string) error {
	return storeErr("ensure", collection, s.ensure(ctx, collection))
}

func (s *PostgresStore) ensure(ctx context.Context, collection string) error {
	if err := ValidateCollection(collection); err != nil {
		return err
	}
	if _, ok := s.ensured.Load(collection); ok {
		return nil
	}

	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq        BIGSERIAL PRIMARY KEY,
			doc        JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, table(collection)))
	if err != nil {
		return fmt.Errorf("failed to create collection table: %w", err)
	}

	s.ensured.Store(collection, struct{}{})
	return nil
}

func table(collection string) string {
	return pgx.Identifier{collection}.Sanitize()
}
