package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/booking-core/internal/persistence"
	"github.com/example/booking-core/internal/schedule"
)

// BusinessData bundles the repositories of one business store.
type BusinessData struct {
	Employees    persistence.EmployeeRepository
	Types        persistence.AppointmentTypeRepository
	Appointments persistence.AppointmentRepository
}

// StoreConnector resolves a business username to its store. The boolean
// result is false when the username is not a registered business.
type StoreConnector interface {
	ConnectBusiness(ctx context.Context, username string) (BusinessData, bool, error)
}

// CustomerDirectory checks customer usernames against the general store.
// Appointments reference customers across store files, so the check has to
// happen here rather than in a foreign key.
type CustomerDirectory interface {
	CustomerExists(ctx context.Context, username string) (bool, error)
}

// BookingService orchestrates appointment booking and queries against
// per-business stores.
type BookingService struct {
	stores    StoreConnector
	customers CustomerDirectory
	newID     func() string
	now       func() time.Time
	logger    *slog.Logger
}

// NewBookingService wires dependencies for the booking service.
func NewBookingService(stores StoreConnector, customers CustomerDirectory, newID func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if newID == nil {
		newID = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		stores:    stores,
		customers: customers,
		newID:     newID,
		now:       now,
		logger:    defaultLogger(logger),
	}
}

// ConnectBusiness reports whether the username names a registered business,
// provisioning its store as a side effect when it does.
func (s *BookingService) ConnectBusiness(ctx context.Context, business string) (bool, error) {
	_, ok, err := s.stores.ConnectBusiness(ctx, business)
	return ok, err
}

func (s *BookingService) connect(ctx context.Context, business string) (BusinessData, error) {
	data, ok, err := s.stores.ConnectBusiness(ctx, business)
	if err != nil {
		return BusinessData{}, err
	}
	if !ok {
		return BusinessData{}, fmt.Errorf("%w: business %q", ErrNotFound, business)
	}
	return data, nil
}

// AddEmployee validates the input and adds an employee to the business
// store.
func (s *BookingService) AddEmployee(ctx context.Context, business string, params NewEmployeeParams) (persistence.Employee, error) {
	logger := serviceLogger(ctx, s.logger, "booking", "add_employee", "business", business)

	vErr := &ValidationError{}
	validateField(vErr, "name", params.Name, persistence.MaxNameLength)
	validateField(vErr, "address", params.Address, persistence.MaxAddressLength)
	validatePhone(vErr, params.Phone)
	if vErr.HasErrors() {
		return persistence.Employee{}, vErr
	}

	data, err := s.connect(ctx, business)
	if err != nil {
		return persistence.Employee{}, err
	}

	employee := persistence.Employee{
		ID:      s.newID(),
		Name:    params.Name,
		Address: params.Address,
		Phone:   params.Phone,
	}
	if err := data.Employees.AddEmployee(ctx, employee); err != nil {
		logger.ErrorContext(ctx, "employee insert failed", "error", err, "error_kind", ErrorKind(err))
		return persistence.Employee{}, err
	}
	return employee, nil
}

// ListEmployees returns the business's employees.
func (s *BookingService) ListEmployees(ctx context.Context, business string) ([]persistence.Employee, error) {
	data, err := s.connect(ctx, business)
	if err != nil {
		return nil, err
	}
	return data.Employees.ListEmployees(ctx)
}

// AddAppointmentType validates the input and registers an appointment type.
func (s *BookingService) AddAppointmentType(ctx context.Context, business string, params NewAppointmentTypeParams) (persistence.AppointmentType, error) {
	logger := serviceLogger(ctx, s.logger, "booking", "add_appointment_type", "business", business)

	vErr := &ValidationError{}
	validateField(vErr, "name", params.Name, persistence.MaxNameLength)
	if params.CostCents < 0 {
		vErr.add("cost", "cost must not be negative")
	}
	if params.Duration <= 0 {
		vErr.add("duration", "duration must be positive")
	}
	if vErr.HasErrors() {
		return persistence.AppointmentType{}, vErr
	}

	data, err := s.connect(ctx, business)
	if err != nil {
		return persistence.AppointmentType{}, err
	}

	at := persistence.AppointmentType{
		ID:        s.newID(),
		Name:      params.Name,
		CostCents: params.CostCents,
		Duration:  params.Duration,
	}
	if err := data.Types.AddAppointmentType(ctx, at); err != nil {
		logger.ErrorContext(ctx, "appointment type insert failed", "error", err, "error_kind", ErrorKind(err))
		return persistence.AppointmentType{}, err
	}
	return at, nil
}

// ListAppointmentTypes returns the business's appointment types.
func (s *BookingService) ListAppointmentTypes(ctx context.Context, business string) ([]persistence.AppointmentType, error) {
	data, err := s.connect(ctx, business)
	if err != nil {
		return nil, err
	}
	return data.Types.ListAppointmentTypes(ctx)
}

// BookAppointment books an appointment at an absolute instant. The customer
// username is checked against the general store before the write; employee
// and type references are enforced by the store itself.
func (s *BookingService) BookAppointment(ctx context.Context, business string, params BookingParams) (persistence.Appointment, error) {
	logger := serviceLogger(ctx, s.logger, "booking", "book", "business", business, "customer", params.CustomerUsername)

	vErr := &ValidationError{}
	validateUsername(vErr, params.CustomerUsername)
	if params.EmployeeID == "" {
		vErr.add("employee", "employee is required")
	}
	if params.AppointmentTypeID == "" {
		vErr.add("appointment_type", "appointment type is required")
	}
	if params.At.IsZero() {
		vErr.add("date_and_time", "date and time is required")
	}
	if vErr.HasErrors() {
		return persistence.Appointment{}, vErr
	}

	exists, err := s.customers.CustomerExists(ctx, params.CustomerUsername)
	if err != nil {
		return persistence.Appointment{}, err
	}
	if !exists {
		return persistence.Appointment{}, fmt.Errorf("%w: customer %q", ErrDanglingReference, params.CustomerUsername)
	}

	data, err := s.connect(ctx, business)
	if err != nil {
		return persistence.Appointment{}, err
	}

	appointment := persistence.Appointment{
		ID:                s.newID(),
		DateAndTime:       params.At,
		AppointmentTypeID: params.AppointmentTypeID,
		EmployeeID:        params.EmployeeID,
		CustomerUsername:  params.CustomerUsername,
	}
	if err := data.Appointments.AddAppointment(ctx, appointment); err != nil {
		if errors.Is(err, persistence.ErrForeignKeyViolation) {
			return persistence.Appointment{}, fmt.Errorf("%w: unknown employee or appointment type", ErrDanglingReference)
		}
		logger.ErrorContext(ctx, "appointment insert failed", "error", err, "error_kind", ErrorKind(err))
		return persistence.Appointment{}, err
	}

	logger.InfoContext(ctx, "appointment booked", "appointment", appointment.ID, "at", appointment.DateAndTime)
	return appointment, nil
}

// BookWeekly books an appointment at the next occurrence of a weekly slot,
// measured from the current time.
func (s *BookingService) BookWeekly(ctx context.Context, business string, params WeeklyBookingParams) (persistence.Appointment, error) {
	return s.BookAppointment(ctx, business, BookingParams{
		CustomerUsername:  params.CustomerUsername,
		EmployeeID:        params.EmployeeID,
		AppointmentTypeID: params.AppointmentTypeID,
		At:                params.Slot.NextOccurrence(s.now()),
	})
}

// WeekAppointments returns the business's appointments in the current week,
// from Monday midnight local time to the following Monday, ordered by start
// time.
func (s *BookingService) WeekAppointments(ctx context.Context, business string) ([]persistence.Appointment, error) {
	data, err := s.connect(ctx, business)
	if err != nil {
		return nil, err
	}
	from, to := schedule.WeekWindow(s.now())
	return data.Appointments.AppointmentsBetween(ctx, from, to)
}

// AppointmentDuration resolves the duration of a booked appointment through
// its appointment type. A type that has since disappeared from the registry
// is reported as a dangling reference.
func (s *BookingService) AppointmentDuration(ctx context.Context, business, appointmentID string) (time.Duration, error) {
	data, err := s.connect(ctx, business)
	if err != nil {
		return 0, err
	}

	appointment, err := data.Appointments.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return 0, fmt.Errorf("%w: appointment %q", ErrNotFound, appointmentID)
		}
		return 0, err
	}

	at, err := data.Types.GetAppointmentType(ctx, appointment.AppointmentTypeID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return 0, fmt.Errorf("%w: appointment type %q", ErrDanglingReference, appointment.AppointmentTypeID)
		}
		return 0, err
	}
	return at.Duration, nil
}
