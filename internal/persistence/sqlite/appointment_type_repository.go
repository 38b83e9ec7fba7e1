package sqlite

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/booking-core/internal/persistence"
)

// AppointmentTypeRepository implements persistence.AppointmentTypeRepository
// against one business store. Reads are served from an in-memory registry
// populated at store open; writes keep the registry coherent and Reload
// refreshes it wholesale from the database.
type AppointmentTypeRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper

	mu       sync.RWMutex
	registry map[string]persistence.AppointmentType
}

// NewAppointmentTypeRepository creates an appointment type repository on the
// given pool. Callers must Reload before the first lookup; OpenBusiness does
// this.
func NewAppointmentTypeRepository(pool *ConnectionPool) *AppointmentTypeRepository {
	return &AppointmentTypeRepository{
		pool:     pool,
		mapper:   NewErrorMapper(),
		registry: make(map[string]persistence.AppointmentType),
	}
}

// AddAppointmentType inserts a type row and, on success, publishes it to the
// registry.
func (r *AppointmentTypeRepository) AddAppointmentType(ctx context.Context, at persistence.AppointmentType) error {
	if at.ID == "" {
		return fmt.Errorf("%w: empty appointment type id", persistence.ErrConstraintViolation)
	}
	if at.Duration <= 0 {
		return fmt.Errorf("%w: appointment type duration must be positive", persistence.ErrConstraintViolation)
	}

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO appointment_type (id, name, cost_cents, duration_secs) VALUES (?, ?, ?, ?)`,
		at.ID, at.Name, at.CostCents, int64(at.Duration/time.Second),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	r.mu.Lock()
	r.registry[at.ID] = at
	r.mu.Unlock()
	return nil
}

// GetAppointmentType is a pure registry lookup with no mutation.
func (r *AppointmentTypeRepository) GetAppointmentType(_ context.Context, id string) (persistence.AppointmentType, error) {
	r.mu.RLock()
	at, ok := r.registry[id]
	r.mu.RUnlock()
	if !ok {
		return persistence.AppointmentType{}, persistence.ErrNotFound
	}
	return at, nil
}

// ListAppointmentTypes returns the registry contents ordered by name then id.
func (r *AppointmentTypeRepository) ListAppointmentTypes(_ context.Context) ([]persistence.AppointmentType, error) {
	r.mu.RLock()
	types := make([]persistence.AppointmentType, 0, len(r.registry))
	for _, at := range r.registry {
		types = append(types, at)
	}
	r.mu.RUnlock()

	sort.Slice(types, func(i, j int) bool {
		if types[i].Name == types[j].Name {
			return types[i].ID < types[j].ID
		}
		return types[i].Name < types[j].Name
	})
	return types, nil
}

// Reload repopulates the registry from the database, replacing the previous
// contents atomically.
func (r *AppointmentTypeRepository) Reload(ctx context.Context) error {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, name, cost_cents, duration_secs FROM appointment_type`,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	defer rows.Close()

	registry := make(map[string]persistence.AppointmentType)
	for rows.Next() {
		var at persistence.AppointmentType
		var durationSecs int64
		if err := rows.Scan(&at.ID, &at.Name, &at.CostCents, &durationSecs); err != nil {
			return r.mapper.MapError(err)
		}
		at.Duration = time.Duration(durationSecs) * time.Second
		registry[at.ID] = at
	}
	if err := rows.Err(); err != nil {
		return r.mapper.MapError(err)
	}

	r.mu.Lock()
	r.registry = registry
	r.mu.Unlock()
	return nil
}
