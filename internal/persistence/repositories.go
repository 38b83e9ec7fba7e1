package persistence

import (
	"context"
	"time"
)

// CredentialRepository stores user credentials and customer profiles in the
// general store.
type CredentialRepository interface {
	// AddCredential inserts a bare credential. ErrDuplicate signals that the
	// username is already taken.
	AddCredential(ctx context.Context, cred Credential) error
	// RegisterCustomer inserts a credential together with its customer
	// profile in a single transaction; a failure of either insert leaves no
	// partial row behind.
	RegisterCustomer(ctx context.Context, cred Credential, profile CustomerProfile) error
	// RegisterBusiness inserts a credential together with its business
	// registry row in a single transaction, with the same atomicity
	// contract as RegisterCustomer.
	RegisterBusiness(ctx context.Context, cred Credential, business Business) error
	// CredentialDigest returns the stored password digest for a username.
	CredentialDigest(ctx context.Context, username string) ([]byte, error)
	// GetCustomer returns the customer profile for a username.
	GetCustomer(ctx context.Context, username string) (CustomerProfile, error)
	// CustomerExists reports whether a customer profile exists.
	CustomerExists(ctx context.Context, username string) (bool, error)
}

// BusinessRegistry stores the registry of businesses in the general store.
type BusinessRegistry interface {
	AddBusiness(ctx context.Context, business Business) error
	GetBusiness(ctx context.Context, username string) (Business, error)
	ListBusinesses(ctx context.Context) ([]Business, error)
	// IsBusiness reports whether the username names a registered business.
	// More than one matching row is an ErrConsistency fault.
	IsBusiness(ctx context.Context, username string) (bool, error)
}

// EmployeeRepository stores the employees of one business store.
type EmployeeRepository interface {
	AddEmployee(ctx context.Context, employee Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

// AppointmentTypeRepository stores a business's appointment type reference
// data. Lookups are served from a registry populated at store open; Reload
// refreshes it explicitly.
type AppointmentTypeRepository interface {
	AddAppointmentType(ctx context.Context, at AppointmentType) error
	GetAppointmentType(ctx context.Context, id string) (AppointmentType, error)
	ListAppointmentTypes(ctx context.Context) ([]AppointmentType, error)
	Reload(ctx context.Context) error
}

// AppointmentRepository stores a business's appointments.
type AppointmentRepository interface {
	AddAppointment(ctx context.Context, appointment Appointment) error
	GetAppointment(ctx context.Context, id string) (Appointment, error)
	// AppointmentsBetween returns appointments with from <= DateAndTime < to,
	// ordered ascending by timestamp. Rows that fail to decode are skipped
	// with a logged warning rather than failing the whole read.
	AppointmentsBetween(ctx context.Context, from, to time.Time) ([]Appointment, error)
}
