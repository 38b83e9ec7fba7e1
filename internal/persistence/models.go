package persistence

import "time"

// Field length limits enforced by the store schemas. Values are measured in
// bytes, matching the CHECK constraints.
const (
	MaxUsernameLength = 20
	MaxNameLength     = 40
	MaxAddressLength  = 255
	MaxPhoneLength    = 10

	// DigestLength is the exact size of a stored password digest.
	DigestLength = 32
)

// Credential pairs a username with its salted password digest. The digest is
// always DigestLength bytes; plaintext passwords never reach the store.
type Credential struct {
	Username     string
	PasswordHash []byte
}

// CustomerProfile holds the customer record created atomically with its
// credential at registration time.
type CustomerProfile struct {
	Username string
	Name     string
	Address  string
	Phone    string
}

// Business is an entry in the general store's business registry. The
// username doubles as the business identifier and names the per-business
// store file.
type Business struct {
	Username     string
	BusinessName string
	OwnerName    string
	Address      string
	Phone        string
}

// Employee belongs exclusively to one business store.
type Employee struct {
	ID      string
	Name    string
	Address string
	Phone   string
}

// AppointmentType is reference data describing a category of appointment.
// Appointments carry only the type ID; duration and cost are resolved
// against the registry at read time, so later edits to a type change what
// existing appointments report.
type AppointmentType struct {
	ID        string
	Name      string
	CostCents int64
	Duration  time.Duration
}

// Appointment binds a concrete instant to an appointment type, an employee
// and a customer. The customer username refers to the general store and is
// checked at the application layer; the two stores are physically separate.
type Appointment struct {
	ID                string
	DateAndTime       time.Time
	AppointmentTypeID string
	EmployeeID        string
	CustomerUsername  string
}
