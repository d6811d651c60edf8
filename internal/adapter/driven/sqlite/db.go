// Package sqlite implements the session store ports on SQLite via modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// memoryDSN is used when no database path is configured. The session state
// then lives only as long as the process.
const memoryDSN = "file:dogdiscoverer?mode=memory&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"

// DB provides dual reader/writer database connections.
// The writer connection is limited to a single connection to avoid "database is locked" errors.
// For file databases the reader pool allows up to 4 concurrent readers over WAL.
// For the in-memory database reader and writer share one connection.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// NewDB opens the session database. An empty dbPath selects a private
// in-memory database; otherwise a file database is opened with WAL mode,
// busy timeout, synchronous NORMAL, foreign keys and a 64MB cache.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	if dbPath == "" {
		return newMemoryDB(ctx)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		dbPath,
	)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	writer.SetMaxOpenConns(1)

	if err := writer.PingContext(ctx); err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("ping writer: %w", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("open reader: %w", err)
	}
	reader.SetMaxOpenConns(4)

	if err := reader.PingContext(ctx); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		return nil, fmt.Errorf("ping reader: %w", err)
	}

	return &DB{
		Writer: writer,
		Reader: reader,
		path:   dbPath,
	}, nil
}

// newMemoryDB opens a single-connection in-memory database. The connection is
// never recycled, because closing the last connection discards the database.
func newMemoryDB(ctx context.Context) (*DB, error) {
	conn, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping memory db: %w", err)
	}

	return &DB{
		Writer: conn,
		Reader: conn,
		path:   ":memory:",
	}, nil
}

// Path returns the database path, or ":memory:" for the in-memory database.
func (db *DB) Path() string {
	return db.path
}

// Close closes both reader and writer connections. Returns the first error encountered.
func (db *DB) Close() error {
	var firstErr error

	if db.Reader != db.Writer {
		if err := db.Reader.Close(); err != nil {
			firstErr = fmt.Errorf("close reader: %w", err)
		}
	}

	if err := db.Writer.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close writer: %w", err)
	}

	return firstErr
}
