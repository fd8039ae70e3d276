// Package sqlstore implements the driven store ports on database/sql. It runs
// against SQLite (modernc.org/sqlite) or PostgreSQL (pgx), selected by the
// connection string.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"            // registers the "sqlite" driver
)

// Dialect identifies the SQL engine behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB provides reader/writer database handles and a statement builder bound to
// the engine's placeholder format. For SQLite the writer is limited to a single
// connection to avoid "database is locked" errors and readers run in WAL mode.
// For PostgreSQL both handles share one pool.
type DB struct {
	Writer  *sql.DB
	Reader  *sql.DB
	Dialect Dialect
	sb      sq.StatementBuilderType
}

// ParseDSN maps a DATABASE_URL to a driver dialect and the DSN that driver
// expects. postgres:// and postgresql:// select PostgreSQL; sqlite://path,
// file: URIs and bare paths select SQLite.
func ParseDSN(databaseURL string) (Dialect, string, error) {
	raw := strings.TrimSpace(databaseURL)
	switch {
	case raw == "":
		return "", "", fmt.Errorf("empty database url")
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DialectPostgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return DialectSQLite, sqliteDSN(strings.TrimPrefix(raw, "sqlite://")), nil
	case strings.HasPrefix(raw, "sqlite:"):
		return DialectSQLite, sqliteDSN(strings.TrimPrefix(raw, "sqlite:")), nil
	case strings.HasPrefix(raw, "file:"):
		return DialectSQLite, raw, nil
	case strings.Contains(raw, "://"):
		return "", "", fmt.Errorf("unsupported database url scheme in %q", redact(raw))
	default:
		return DialectSQLite, sqliteDSN(raw), nil
	}
}

// sqliteDSN builds a file DSN with WAL mode, busy timeout, synchronous NORMAL,
// foreign keys enabled, and a 64MB cache.
func sqliteDSN(path string) string {
	return fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		path,
	)
}

// Open connects to the database described by databaseURL and verifies both
// handles with a ping.
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	dialect, dsn, err := ParseDSN(databaseURL)
	if err != nil {
		return nil, err
	}

	switch dialect {
	case DialectPostgres:
		return openPostgres(ctx, dsn)
	default:
		return openSQLite(ctx, dsn)
	}
}

func openSQLite(ctx context.Context, dsn string) (*DB, error) {
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

	return NewDB(writer, reader, DialectSQLite), nil
}

func openPostgres(ctx context.Context, dsn string) (*DB, error) {
	pool, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	pool.SetMaxOpenConns(10)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return NewDB(pool, pool, DialectPostgres), nil
}

// NewDB wraps already opened handles. writer and reader may be the same pool.
func NewDB(writer, reader *sql.DB, dialect Dialect) *DB {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if dialect == DialectPostgres {
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}

	return &DB{
		Writer:  writer,
		Reader:  reader,
		Dialect: dialect,
		sb:      sb,
	}
}

// Ping verifies the reader handle is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.Reader.PingContext(ctx)
}

// Close closes both handles. Returns the first error encountered.
func (db *DB) Close() error {
	var firstErr error

	if err := db.Reader.Close(); err != nil {
		firstErr = fmt.Errorf("close reader: %w", err)
	}

	if db.Writer != db.Reader {
		if err := db.Writer.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close writer: %w", err)
		}
	}

	return firstErr
}

// withTx runs fn inside a writer transaction that commits when fn returns nil
// and rolls back otherwise.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// redact hides the password of a URL-shaped DSN for error messages.
func redact(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return raw
	}
	creds := raw[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return raw[:scheme+3] + creds[:colon] + ":***" + raw[at:]
	}
	return raw
}
