// Package sqlite implements the persistence repositories on file-backed
// SQLite databases: one general store shared process-wide and one store per
// business, provisioned lazily.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/booking-core/internal/persistence"
	_ "modernc.org/sqlite"
)

// PoolConfig holds the connection settings for one store file.
type PoolConfig struct {
	// Path is the database file path, or ":memory:" for tests.
	Path string
	// BusyTimeout sets how long to wait for database locks.
	BusyTimeout time.Duration
	// JournalMode sets the SQLite journal mode.
	JournalMode string
}

// DefaultPoolConfig returns the settings used for production store files.
func DefaultPoolConfig(path string) PoolConfig {
	return PoolConfig{
		Path:        path,
		BusyTimeout: 5 * time.Second,
		JournalMode: "WAL",
	}
}

// ConnectionPool wraps the database handle for a single store. Each store
// has one logical writer: the pool is capped at a single connection, so
// callers are serialized at the database boundary.
type ConnectionPool struct {
	db   *sql.DB
	path string
}

// NewConnectionPool opens (creating if necessary) the database file at
// cfg.Path and applies the store pragmas.
func NewConnectionPool(cfg PoolConfig) (*ConnectionPool, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: store path is empty")
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", cfg.Path, err)
	}

	// go-sqlite does not support concurrent writers; one connection also
	// keeps ":memory:" databases coherent across calls.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}
	if cfg.JournalMode != "" {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA journal_mode = %s", cfg.JournalMode))
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", cfg.Path, err)
	}

	return &ConnectionPool{db: db, path: cfg.Path}, nil
}

// DB exposes the underlying handle for tests and ad hoc statements.
func (cp *ConnectionPool) DB() *sql.DB { return cp.db }

// Path returns the database file path the pool was opened with.
func (cp *ConnectionPool) Path() string { return cp.path }

// Close releases the connection. Writes are committed per statement or per
// transaction, so closing loses no acknowledged work.
func (cp *ConnectionPool) Close() error {
	if cp == nil || cp.db == nil {
		return nil
	}
	return cp.db.Close()
}

// TransactionFunc runs inside a database transaction.
type TransactionFunc func(tx *sql.Tx) error

// WithTransaction executes fn inside a transaction, rolling back when fn
// returns an error or panics and committing otherwise.
func (cp *ConnectionPool) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	tx, err := cp.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}
	return nil
}

// createSchema executes the DDL statements for a store inside a single
// transaction, so a partially created schema is never left visible. All
// statements use IF NOT EXISTS, making the bootstrap idempotent and safe to
// race between processes opening the same file.
func (cp *ConnectionPool) createSchema(ctx context.Context, statements []string) error {
	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("sqlite: create schema: %w", err)
			}
		}
		return nil
	})
}

// ErrorMapper translates driver-level errors into the persistence error
// taxonomy so no raw SQLite error escapes the store layer.
type ErrorMapper struct{}

// NewErrorMapper returns an ErrorMapper.
func NewErrorMapper() *ErrorMapper { return &ErrorMapper{} }

// MapError maps a driver error onto the persistence sentinels, preserving
// the original message for diagnostics.
func (em *ErrorMapper) MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "foreign key constraint"):
		return fmt.Errorf("%w: %v", persistence.ErrForeignKeyViolation, err)
	case strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}
