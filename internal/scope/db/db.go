package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Backend names accepted by Open
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
)

// Options selects and configures a storage backend
type Options struct {
	Driver string

	// URL is the Postgres connection string
	URL string

	// Database overrides the database named in URL when set
	Database string

	// DataDir holds the sqlite database or the JSONL files
	DataDir string

	// Logger receives store warnings; nil discards them
	Logger *zerolog.Logger
}

// Collections is implemented by backends that create collections ahead of use
type Collections interface {
	EnsureCollection(ctx context.Context, collection string) error
}

var (
	_ Collections = (*PostgresStore)(nil)
	_ Collections = (*SQLiteStore)(nil)
)

// Open connects to the configured backend
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case DriverPostgres:
		pool, err := Connect(ctx, opts.URL, opts.Database)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool), nil
	case DriverSQLite:
		return NewSQLiteStore(opts.DataDir)
	case DriverFile, "":
		if opts.Logger != nil {
			return NewStore(opts.DataDir, WithLogger(*opts.Logger))
		}
		return NewStore(opts.DataDir)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// Connect creates a Postgres connection pool and verifies it with a ping
func Connect(ctx context.Context, connString, database string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if database != "" {
		cfg.ConnConfig.Database = database
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
