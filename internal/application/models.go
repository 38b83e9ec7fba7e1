package application

import (
	"time"

	"github.com/example/booking-core/internal/schedule"
)

// RegisterCustomerParams wraps the data required to register a customer
// account.
type RegisterCustomerParams struct {
	Username string
	Password string
	Name     string
	Address  string
	Phone    string
}

// RegisterBusinessParams wraps the data required to register a business and
// its login credential.
type RegisterBusinessParams struct {
	Username     string
	Password     string
	BusinessName string
	OwnerName    string
	Address      string
	Phone        string
}

// NewEmployeeParams wraps the data required to add an employee to a business
// store.
type NewEmployeeParams struct {
	Name    string
	Address string
	Phone   string
}

// NewAppointmentTypeParams wraps the data required to register an
// appointment type.
type NewAppointmentTypeParams struct {
	Name      string
	CostCents int64
	Duration  time.Duration
}

// BookingParams books an appointment at an absolute instant.
type BookingParams struct {
	CustomerUsername  string
	EmployeeID        string
	AppointmentTypeID string
	At                time.Time
}

// WeeklyBookingParams books an appointment at the next occurrence of a
// weekly slot.
type WeeklyBookingParams struct {
	CustomerUsername  string
	EmployeeID        string
	AppointmentTypeID string
	Slot              schedule.WeekDate
}
