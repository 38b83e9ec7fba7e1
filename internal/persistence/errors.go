package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert collides with an existing
	// primary key, e.g. a username that is already taken.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a value breaks a schema CHECK
	// constraint, such as a field exceeding its length limit.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a write references a row that
	// does not exist in the same store.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrConsistency is returned when an internal uniqueness invariant turns
	// out to be violated, e.g. two registry rows for one business username.
	// Callers should treat it as an unrecoverable fault, not retry it.
	ErrConsistency = errors.New("persistence: consistency fault")
)
