// Package testfixtures provides deterministic clocks, identifiers, record
// fixtures, and store harnesses shared by tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/booking-core/internal/persistence"
)

var (
	customerCounter    uint64
	businessCounter    uint64
	employeeCounter    uint64
	typeCounter        uint64
	appointmentCounter uint64
)

// referenceTime is a Thursday, so week window tests have days on either side
// inside the same week.
var referenceTime = time.Date(2026, time.April, 16, 12, 0, 0, 0, time.Local)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// Digest returns a valid length digest filled with the given byte.
func Digest(fill byte) []byte {
	digest := make([]byte, persistence.DigestLength)
	for i := range digest {
		digest[i] = fill
	}
	return digest
}

// CustomerFixture bundles the credential and profile created together at
// registration.
type CustomerFixture struct {
	Credential persistence.Credential
	Profile    persistence.CustomerProfile
}

// CustomerOption configures the generated customer fixture.
type CustomerOption func(*CustomerFixture)

// NewCustomerFixture returns a deterministic customer with optional
// overrides.
func NewCustomerFixture(opts ...CustomerOption) CustomerFixture {
	idx := atomic.AddUint64(&customerCounter, 1)
	username := fmt.Sprintf("customer-%03d", idx)
	fixture := CustomerFixture{
		Credential: persistence.Credential{
			Username:     username,
			PasswordHash: Digest(byte(idx)),
		},
		Profile: persistence.CustomerProfile{
			Username: username,
			Name:     fmt.Sprintf("Customer %03d", idx),
			Address:  fmt.Sprintf("%d Main St", idx),
			Phone:    "0123456789",
		},
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCustomerUsername overrides the generated username on both the
// credential and the profile.
func WithCustomerUsername(username string) CustomerOption {
	return func(f *CustomerFixture) {
		f.Credential.Username = username
		f.Profile.Username = username
	}
}

// BusinessOption configures the generated business fixture.
type BusinessOption func(*persistence.Business)

// NewBusinessFixture returns a deterministic business registry entry with
// optional overrides.
func NewBusinessFixture(opts ...BusinessOption) persistence.Business {
	idx := atomic.AddUint64(&businessCounter, 1)
	fixture := persistence.Business{
		Username:     fmt.Sprintf("business-%03d", idx),
		BusinessName: fmt.Sprintf("Business %03d", idx),
		OwnerName:    fmt.Sprintf("Owner %03d", idx),
		Address:      fmt.Sprintf("%d High St", idx),
		Phone:        "0123456789",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBusinessUsername overrides the generated business username.
func WithBusinessUsername(username string) BusinessOption {
	return func(b *persistence.Business) {
		b.Username = username
	}
}

// NewEmployeeFixture returns a deterministic employee record.
func NewEmployeeFixture() persistence.Employee {
	idx := atomic.AddUint64(&employeeCounter, 1)
	return persistence.Employee{
		ID:      fmt.Sprintf("empl-%03d", idx),
		Name:    fmt.Sprintf("Employee %03d", idx),
		Address: fmt.Sprintf("%d Side St", idx),
		Phone:   "0123456789",
	}
}

// NewAppointmentTypeFixture returns a deterministic appointment type.
func NewAppointmentTypeFixture() persistence.AppointmentType {
	idx := atomic.AddUint64(&typeCounter, 1)
	return persistence.AppointmentType{
		ID:        fmt.Sprintf("type-%03d", idx),
		Name:      fmt.Sprintf("Service %03d", idx),
		CostCents: int64(idx) * 500,
		Duration:  30 * time.Minute,
	}
}

// NewAppointmentFixture returns a deterministic appointment referencing the
// given employee, type, and customer. Successive fixtures land on successive
// hours after the reference time.
func NewAppointmentFixture(typeID, employeeID, customer string) persistence.Appointment {
	idx := atomic.AddUint64(&appointmentCounter, 1)
	return persistence.Appointment{
		ID:                fmt.Sprintf("apt-%03d", idx),
		DateAndTime:       referenceTime.Add(time.Duration(idx) * time.Hour),
		AppointmentTypeID: typeID,
		EmployeeID:        employeeID,
		CustomerUsername:  customer,
	}
}
