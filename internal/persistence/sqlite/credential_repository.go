package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/booking-core/internal/persistence"
)

// CredentialRepository implements persistence.CredentialRepository against
// the general store.
type CredentialRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewCredentialRepository creates a credential repository on the given pool.
func NewCredentialRepository(pool *ConnectionPool) *CredentialRepository {
	return &CredentialRepository{pool: pool, mapper: NewErrorMapper()}
}

// AddCredential inserts a bare credential row.
func (r *CredentialRepository) AddCredential(ctx context.Context, cred persistence.Credential) error {
	if err := validateCredential(cred); err != nil {
		return err
	}

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO credentials (username, password_hash) VALUES (?, ?)`,
		cred.Username, cred.PasswordHash,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// RegisterCustomer inserts the credential and its customer profile in one
// transaction. Neither row becomes visible unless both inserts succeed.
func (r *CredentialRepository) RegisterCustomer(ctx context.Context, cred persistence.Credential, profile persistence.CustomerProfile) error {
	if err := validateCredential(cred); err != nil {
		return err
	}
	if profile.Username != cred.Username {
		return fmt.Errorf("%w: profile username %q does not match credential", persistence.ErrConstraintViolation, profile.Username)
	}

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO credentials (username, password_hash) VALUES (?, ?)`,
			cred.Username, cred.PasswordHash,
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO customers (username, name, address, phone) VALUES (?, ?, ?, ?)`,
			profile.Username, profile.Name, profile.Address, profile.Phone,
		); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// RegisterBusiness inserts the credential and its business registry row in
// one transaction. Neither row becomes visible unless both inserts succeed.
func (r *CredentialRepository) RegisterBusiness(ctx context.Context, cred persistence.Credential, business persistence.Business) error {
	if err := validateCredential(cred); err != nil {
		return err
	}
	if business.Username != cred.Username {
		return fmt.Errorf("%w: business username %q does not match credential", persistence.ErrConstraintViolation, business.Username)
	}

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO credentials (username, password_hash) VALUES (?, ?)`,
			cred.Username, cred.PasswordHash,
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO business (username, business_name, owner_name, address, phone)
			 VALUES (?, ?, ?, ?, ?)`,
			business.Username, business.BusinessName, business.OwnerName, business.Address, business.Phone,
		); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// CredentialDigest returns the stored password digest for a username.
func (r *CredentialRepository) CredentialDigest(ctx context.Context, username string) ([]byte, error) {
	if username == "" {
		return nil, persistence.ErrNotFound
	}

	var digest []byte
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT password_hash FROM credentials WHERE username = ?`, username,
	).Scan(&digest)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}
		return nil, r.mapper.MapError(err)
	}
	return digest, nil
}

// GetCustomer returns the customer profile stored for a username.
func (r *CredentialRepository) GetCustomer(ctx context.Context, username string) (persistence.CustomerProfile, error) {
	if username == "" {
		return persistence.CustomerProfile{}, persistence.ErrNotFound
	}

	var profile persistence.CustomerProfile
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT username, name, address, phone FROM customers WHERE username = ?`, username,
	).Scan(&profile.Username, &profile.Name, &profile.Address, &profile.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.CustomerProfile{}, persistence.ErrNotFound
		}
		return persistence.CustomerProfile{}, r.mapper.MapError(err)
	}
	return profile, nil
}

// CustomerExists reports whether a customer profile exists for the username.
func (r *CredentialRepository) CustomerExists(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}

	var count int
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT COUNT(username) FROM customers WHERE username = ?`, username,
	).Scan(&count)
	if err != nil {
		return false, r.mapper.MapError(err)
	}
	return count > 0, nil
}

func validateCredential(cred persistence.Credential) error {
	if cred.Username == "" {
		return fmt.Errorf("%w: empty username", persistence.ErrConstraintViolation)
	}
	if len(cred.PasswordHash) != persistence.DigestLength {
		return fmt.Errorf("%w: password digest must be %d bytes", persistence.ErrConstraintViolation, persistence.DigestLength)
	}
	return nil
}
