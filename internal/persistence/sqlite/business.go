package sqlite

import (
	"context"
	"fmt"
	"log/slog"
)

// businessSchema creates the tables of one per-business store. Appointment
// timestamps are stored as Unix seconds so that range queries order
// correctly regardless of the wall-clock offset they were written with.
var businessSchema = []string{
	`CREATE TABLE IF NOT EXISTS employee (
		id      TEXT PRIMARY KEY,
		name    TEXT NOT NULL CHECK (length(name) <= 40),
		address TEXT NOT NULL CHECK (length(address) <= 255),
		phone   TEXT NOT NULL CHECK (length(phone) <= 10)
	)`,
	`CREATE TABLE IF NOT EXISTS appointment_type (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL CHECK (length(name) <= 40),
		cost_cents    INTEGER NOT NULL CHECK (cost_cents >= 0),
		duration_secs INTEGER NOT NULL CHECK (duration_secs > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS appointment (
		id               TEXT PRIMARY KEY,
		date_and_time    INTEGER NOT NULL,
		appointment_type TEXT NOT NULL,
		employee         TEXT NOT NULL,
		customer         TEXT NOT NULL CHECK (length(customer) <= 20),
		FOREIGN KEY (appointment_type) REFERENCES appointment_type (id),
		FOREIGN KEY (employee) REFERENCES employee (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointment_date ON appointment (date_and_time)`,
}

// BusinessStore is the per-business database holding employees, appointment
// types and appointments. The customer column of an appointment refers to
// the general store and is therefore checked at the application layer, not
// by this store's foreign keys.
type BusinessStore struct {
	pool *ConnectionPool

	Employees    *EmployeeRepository
	Types        *AppointmentTypeRepository
	Appointments *AppointmentRepository
}

// OpenBusiness opens the business store at path, creating the file and its
// schema on first use. The appointment type registry is populated before the
// store is handed back; when schema creation or the initial load fails, no
// handle escapes.
func OpenBusiness(ctx context.Context, path string, logger *slog.Logger) (*BusinessStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := NewConnectionPool(DefaultPoolConfig(path))
	if err != nil {
		return nil, fmt.Errorf("open business store: %w", err)
	}

	if err := pool.createSchema(ctx, businessSchema); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("initialize business store: %w", err)
	}

	types := NewAppointmentTypeRepository(pool)
	if err := types.Reload(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("load appointment type registry: %w", err)
	}

	return &BusinessStore{
		pool:         pool,
		Employees:    NewEmployeeRepository(pool),
		Types:        types,
		Appointments: NewAppointmentRepository(pool, logger),
	}, nil
}

// Pool exposes the underlying connection pool for tests.
func (s *BusinessStore) Pool() *ConnectionPool { return s.pool }

// Close releases the store's connection.
func (s *BusinessStore) Close() error { return s.pool.Close() }
