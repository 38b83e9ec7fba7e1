package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/booking-core/internal/persistence"
)

// BusinessRegistry implements persistence.BusinessRegistry against the
// general store.
type BusinessRegistry struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewBusinessRegistry creates a business registry on the given pool.
func NewBusinessRegistry(pool *ConnectionPool) *BusinessRegistry {
	return &BusinessRegistry{pool: pool, mapper: NewErrorMapper()}
}

// AddBusiness inserts a business registry row.
func (r *BusinessRegistry) AddBusiness(ctx context.Context, business persistence.Business) error {
	if business.Username == "" {
		return fmt.Errorf("%w: empty business username", persistence.ErrConstraintViolation)
	}

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO business (username, business_name, owner_name, address, phone)
		 VALUES (?, ?, ?, ?, ?)`,
		business.Username, business.BusinessName, business.OwnerName, business.Address, business.Phone,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetBusiness returns the registry entry for a business username.
func (r *BusinessRegistry) GetBusiness(ctx context.Context, username string) (persistence.Business, error) {
	if username == "" {
		return persistence.Business{}, persistence.ErrNotFound
	}

	var business persistence.Business
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT username, business_name, owner_name, address, phone
		 FROM business WHERE username = ?`, username,
	).Scan(&business.Username, &business.BusinessName, &business.OwnerName, &business.Address, &business.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Business{}, persistence.ErrNotFound
		}
		return persistence.Business{}, r.mapper.MapError(err)
	}
	return business, nil
}

// ListBusinesses returns all registered businesses ordered by username.
func (r *BusinessRegistry) ListBusinesses(ctx context.Context) ([]persistence.Business, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT username, business_name, owner_name, address, phone
		 FROM business ORDER BY username ASC`,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var businesses []persistence.Business
	for rows.Next() {
		var business persistence.Business
		if err := rows.Scan(&business.Username, &business.BusinessName, &business.OwnerName, &business.Address, &business.Phone); err != nil {
			return nil, r.mapper.MapError(err)
		}
		businesses = append(businesses, business)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return businesses, nil
}

// IsBusiness reports whether the username names exactly one registered
// business. More than one matching row means the registry's uniqueness
// invariant was violated elsewhere and is surfaced as ErrConsistency rather
// than guessed around.
func (r *BusinessRegistry) IsBusiness(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, nil
	}

	var count int
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT COUNT(username) FROM business WHERE username = ?`, username,
	).Scan(&count)
	if err != nil {
		return false, r.mapper.MapError(err)
	}

	switch count {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %d registry rows for business %q", persistence.ErrConsistency, count, username)
	}
}
