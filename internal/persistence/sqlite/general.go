package sqlite

import (
	"context"
	"fmt"
)

// generalSchema creates the tables of the general store. Length limits match
// the documented field contracts; password digests are fixed at 32 bytes.
var generalSchema = []string{
	`CREATE TABLE IF NOT EXISTS credentials (
		username      TEXT PRIMARY KEY CHECK (length(username) <= 20),
		password_hash BLOB NOT NULL CHECK (length(password_hash) = 32)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		username TEXT PRIMARY KEY CHECK (length(username) <= 20),
		name     TEXT NOT NULL CHECK (length(name) <= 40),
		address  TEXT NOT NULL CHECK (length(address) <= 255),
		phone    TEXT NOT NULL CHECK (length(phone) <= 10),
		FOREIGN KEY (username) REFERENCES credentials (username)
	)`,
	`CREATE TABLE IF NOT EXISTS business (
		username      TEXT PRIMARY KEY CHECK (length(username) <= 20),
		business_name TEXT NOT NULL CHECK (length(business_name) <= 40),
		owner_name    TEXT NOT NULL CHECK (length(owner_name) <= 40),
		address       TEXT NOT NULL CHECK (length(address) <= 255),
		phone         TEXT NOT NULL CHECK (length(phone) <= 10)
	)`,
}

// GeneralStore is the shared database holding credentials, customer
// profiles and the business registry.
type GeneralStore struct {
	pool *ConnectionPool

	Credentials *CredentialRepository
	Businesses  *BusinessRegistry
}

// OpenGeneral opens the general store at path, creating the file and its
// schema when absent. A store whose schema cannot be created is never
// returned.
func OpenGeneral(ctx context.Context, path string) (*GeneralStore, error) {
	pool, err := NewConnectionPool(DefaultPoolConfig(path))
	if err != nil {
		return nil, fmt.Errorf("open general store: %w", err)
	}

	if err := pool.createSchema(ctx, generalSchema); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("initialize general store: %w", err)
	}

	return &GeneralStore{
		pool:        pool,
		Credentials: NewCredentialRepository(pool),
		Businesses:  NewBusinessRegistry(pool),
	}, nil
}

// Pool exposes the underlying connection pool for tests.
func (s *GeneralStore) Pool() *ConnectionPool { return s.pool }

// Close releases the store's connection.
func (s *GeneralStore) Close() error { return s.pool.Close() }
