package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/booking-core/internal/persistence"
)

// AppointmentRepository implements persistence.AppointmentRepository against
// one business store.
type AppointmentRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	logger *slog.Logger
}

// NewAppointmentRepository creates an appointment repository on the given
// pool. The logger records rows skipped during batch reads.
func NewAppointmentRepository(pool *ConnectionPool, logger *slog.Logger) *AppointmentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppointmentRepository{pool: pool, mapper: NewErrorMapper(), logger: logger}
}

// AddAppointment inserts an appointment row.
func (r *AppointmentRepository) AddAppointment(ctx context.Context, appointment persistence.Appointment) error {
	if appointment.ID == "" {
		return fmt.Errorf("%w: empty appointment id", persistence.ErrConstraintViolation)
	}
	if appointment.DateAndTime.IsZero() {
		return fmt.Errorf("%w: appointment has no date and time", persistence.ErrConstraintViolation)
	}

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO appointment (id, date_and_time, appointment_type, employee, customer)
		 VALUES (?, ?, ?, ?, ?)`,
		appointment.ID,
		appointment.DateAndTime.Unix(),
		appointment.AppointmentTypeID,
		appointment.EmployeeID,
		appointment.CustomerUsername,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetAppointment returns the appointment with the given id.
func (r *AppointmentRepository) GetAppointment(ctx context.Context, id string) (persistence.Appointment, error) {
	if id == "" {
		return persistence.Appointment{}, persistence.ErrNotFound
	}

	var appointment persistence.Appointment
	var unix int64
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT id, date_and_time, appointment_type, employee, customer
		 FROM appointment WHERE id = ?`, id,
	).Scan(&appointment.ID, &unix, &appointment.AppointmentTypeID, &appointment.EmployeeID, &appointment.CustomerUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Appointment{}, persistence.ErrNotFound
		}
		return persistence.Appointment{}, r.mapper.MapError(err)
	}
	appointment.DateAndTime = time.Unix(unix, 0)
	return appointment, nil
}

// AppointmentsBetween returns appointments with from <= DateAndTime < to,
// ordered ascending by timestamp. A row that fails to decode is logged and
// skipped rather than failing the whole read.
func (r *AppointmentRepository) AppointmentsBetween(ctx context.Context, from, to time.Time) ([]persistence.Appointment, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, date_and_time, appointment_type, employee, customer
		 FROM appointment
		 WHERE date_and_time >= ? AND date_and_time < ?
		 ORDER BY date_and_time ASC, id ASC`,
		from.Unix(), to.Unix(),
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	appointments := make([]persistence.Appointment, 0)
	for rows.Next() {
		var appointment persistence.Appointment
		var unix int64
		if err := rows.Scan(&appointment.ID, &unix, &appointment.AppointmentTypeID, &appointment.EmployeeID, &appointment.CustomerUsername); err != nil {
			r.logger.WarnContext(ctx, "skipping undecodable appointment row",
				"store", r.pool.Path(), "error", err)
			continue
		}
		appointment.DateAndTime = time.Unix(unix, 0)
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return appointments, nil
}
