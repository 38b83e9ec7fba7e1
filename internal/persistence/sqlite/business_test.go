package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/booking-core/internal/persistence"
	"github.com/example/booking-core/internal/schedule"
)

func openBusinessTest(t *testing.T) *BusinessStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "salon.db")
	store, err := OpenBusiness(context.Background(), path, slog.Default())
	if err != nil {
		t.Fatalf("OpenBusiness failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedBusinessTest(t *testing.T, store *BusinessStore) (persistence.Employee, persistence.AppointmentType) {
	t.Helper()
	ctx := context.Background()

	employee := persistence.Employee{ID: "empl-1", Name: "Casey", Address: "3 Main St", Phone: "0123456789"}
	if err := store.Employees.AddEmployee(ctx, employee); err != nil {
		t.Fatalf("AddEmployee failed: %v", err)
	}

	at := persistence.AppointmentType{ID: "type-1", Name: "Consultation", CostCents: 5000, Duration: 30 * time.Minute}
	if err := store.Types.AddAppointmentType(ctx, at); err != nil {
		t.Fatalf("AddAppointmentType failed: %v", err)
	}
	return employee, at
}

func TestOpenBusiness_SchemaOnFirstUseAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salon.db")
	ctx := context.Background()

	store, err := OpenBusiness(ctx, path, slog.Default())
	if err != nil {
		t.Fatalf("OpenBusiness failed: %v", err)
	}
	employee, at := seedBusinessTest(t, store)
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := OpenBusiness(ctx, path, slog.Default())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	gotEmployee, err := reopened.Employees.GetEmployee(ctx, employee.ID)
	if err != nil {
		t.Fatalf("GetEmployee after reopen failed: %v", err)
	}
	if gotEmployee != employee {
		t.Errorf("GetEmployee = %+v, want %+v", gotEmployee, employee)
	}

	// The type registry is populated at open time.
	gotType, err := reopened.Types.GetAppointmentType(ctx, at.ID)
	if err != nil {
		t.Fatalf("GetAppointmentType after reopen failed: %v", err)
	}
	if gotType != at {
		t.Errorf("GetAppointmentType = %+v, want %+v", gotType, at)
	}
}

func TestAppointmentTypeRepository_RegistryRequiresReload(t *testing.T) {
	store := openBusinessTest(t)
	ctx := context.Background()

	// A row written behind the registry's back is invisible until an
	// explicit reload.
	if _, err := store.Pool().DB().ExecContext(ctx,
		`INSERT INTO appointment_type (id, name, cost_cents, duration_secs)
		 VALUES ('type-raw', 'Massage', 9000, 3600)`,
	); err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	if _, err := store.Types.GetAppointmentType(ctx, "type-raw"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("GetAppointmentType before reload = %v, want ErrNotFound", err)
	}

	if err := store.Types.Reload(ctx); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	at, err := store.Types.GetAppointmentType(ctx, "type-raw")
	if err != nil {
		t.Fatalf("GetAppointmentType after reload failed: %v", err)
	}
	if at.Duration != time.Hour {
		t.Errorf("Duration = %v, want 1h", at.Duration)
	}
}

func TestAppointmentRepository_RoundTrip(t *testing.T) {
	store := openBusinessTest(t)
	ctx := context.Background()
	employee, at := seedBusinessTest(t, store)

	want := persistence.Appointment{
		ID:                "apt-1",
		DateAndTime:       time.Date(2026, time.April, 15, 10, 30, 0, 0, time.Local),
		AppointmentTypeID: at.ID,
		EmployeeID:        employee.ID,
		CustomerUsername:  "alice",
	}
	if err := store.Appointments.AddAppointment(ctx, want); err != nil {
		t.Fatalf("AddAppointment failed: %v", err)
	}

	got, err := store.Appointments.GetAppointment(ctx, "apt-1")
	if err != nil {
		t.Fatalf("GetAppointment failed: %v", err)
	}
	if !got.DateAndTime.Equal(want.DateAndTime) {
		t.Errorf("DateAndTime = %v, want %v", got.DateAndTime, want.DateAndTime)
	}
	if got.AppointmentTypeID != want.AppointmentTypeID ||
		got.EmployeeID != want.EmployeeID ||
		got.CustomerUsername != want.CustomerUsername {
		t.Errorf("GetAppointment = %+v, want %+v", got, want)
	}
}

func TestAppointmentRepository_AppointmentsBetween_WeekWindow(t *testing.T) {
	store := openBusinessTest(t)
	ctx := context.Background()
	employee, at := seedBusinessTest(t, store)

	// Thursday midweek; the containing Monday-start window is [Apr 13, Apr 20).
	now := time.Date(2026, time.April, 16, 12, 0, 0, 0, time.Local)
	from, to := schedule.WeekWindow(now)

	offsets := map[string]int{"apt-m8": -8, "apt-m1": -1, "apt-p3": 3, "apt-p10": 10}
	for id, days := range offsets {
		appointment := persistence.Appointment{
			ID:                id,
			DateAndTime:       now.AddDate(0, 0, days),
			AppointmentTypeID: at.ID,
			EmployeeID:        employee.ID,
			CustomerUsername:  "alice",
		}
		if err := store.Appointments.AddAppointment(ctx, appointment); err != nil {
			t.Fatalf("AddAppointment(%s) failed: %v", id, err)
		}
	}

	got, err := store.Appointments.AppointmentsBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("AppointmentsBetween failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d appointments, want 2", len(got))
	}
	if got[0].ID != "apt-m1" || got[1].ID != "apt-p3" {
		t.Errorf("window contents = [%s, %s], want [apt-m1, apt-p3]", got[0].ID, got[1].ID)
	}
	if got[1].DateAndTime.Before(got[0].DateAndTime) {
		t.Error("results not ordered ascending by timestamp")
	}
}

func TestAppointmentRepository_AppointmentsBetween_SkipsUndecodableRows(t *testing.T) {
	store := openBusinessTest(t)
	ctx := context.Background()
	employee, at := seedBusinessTest(t, store)

	now := time.Date(2026, time.April, 16, 12, 0, 0, 0, time.Local)
	good := persistence.Appointment{
		ID:                "apt-good",
		DateAndTime:       now,
		AppointmentTypeID: at.ID,
		EmployeeID:        employee.ID,
		CustomerUsername:  "alice",
	}
	if err := store.Appointments.AddAppointment(ctx, good); err != nil {
		t.Fatalf("AddAppointment failed: %v", err)
	}

	// A fractional timestamp stays inside the queried range but does not
	// decode as an integer. The read must skip it and still return the
	// healthy row.
	if _, err := store.Pool().DB().ExecContext(ctx,
		`INSERT INTO appointment (id, date_and_time, appointment_type, employee, customer)
		 VALUES ('apt-bad', ?, ?, ?, 'alice')`,
		float64(now.Unix())+0.5, at.ID, employee.ID,
	); err != nil {
		t.Fatalf("raw insert failed: %v", err)
	}

	from, to := schedule.WeekWindow(now)
	got, err := store.Appointments.AppointmentsBetween(ctx, from, to)
	if err != nil {
		t.Fatalf("AppointmentsBetween failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "apt-good" {
		t.Fatalf("got %+v, want only apt-good", got)
	}
}

func TestAppointmentRepository_ForeignKeysEnforced(t *testing.T) {
	store := openBusinessTest(t)
	ctx := context.Background()

	err := store.Appointments.AddAppointment(ctx, persistence.Appointment{
		ID:                "apt-orphan",
		DateAndTime:       time.Now(),
		AppointmentTypeID: "missing-type",
		EmployeeID:        "missing-empl",
		CustomerUsername:  "alice",
	})
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("AddAppointment with dangling references = %v, want ErrForeignKeyViolation", err)
	}
}

func TestEmployeeRepository_ListOrdering(t *testing.T) {
	store := openBusinessTest(t)
	ctx := context.Background()

	for _, employee := range []persistence.Employee{
		{ID: "empl-2", Name: "Blair", Address: "4 Main St", Phone: "0123456789"},
		{ID: "empl-1", Name: "Avery", Address: "5 Main St", Phone: "0123456789"},
	} {
		if err := store.Employees.AddEmployee(ctx, employee); err != nil {
			t.Fatalf("AddEmployee failed: %v", err)
		}
	}

	employees, err := store.Employees.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("ListEmployees failed: %v", err)
	}
	if len(employees) != 2 || employees[0].Name != "Avery" || employees[1].Name != "Blair" {
		t.Errorf("ListEmployees = %+v, want Avery then Blair", employees)
	}
}
