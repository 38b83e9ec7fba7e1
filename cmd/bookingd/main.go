package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/booking-core/internal/application"
	"github.com/example/booking-core/internal/config"
	"github.com/example/booking-core/internal/logging"
	"github.com/example/booking-core/internal/provisioning"
	"github.com/example/booking-core/internal/schedule"
)

func main() {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.ContextWithLogger(ctx, logger)

	manager, err := provisioning.Open(ctx, provisioning.Config{
		DataDir:        cfg.DataDir,
		GeneralDB:      cfg.GeneralDB,
		StoreCacheSize: cfg.StoreCacheSize,
	}, logger)
	if err != nil {
		logger.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := manager.Close(); cerr != nil {
			logger.Error("failed to close stores", "error", cerr)
		}
	}()

	general := manager.General()
	authService := application.NewAuthService(general.Credentials, general.Businesses, application.DefaultDigestParams, logger)
	bookingService := application.NewBookingService(
		newStoreConnectorAdapter(manager),
		general.Credentials,
		uuid.NewString,
		time.Now,
		logger,
	)

	logger.Info("booking console ready", "data_dir", cfg.DataDir)
	if err := runConsole(ctx, os.Stdin, os.Stdout, authService, bookingService); err != nil {
		logger.Error("console failed", "error", err)
		os.Exit(1)
	}
}

// storeConnectorAdapter exposes the provisioning manager's stores as the
// repository bundle the booking service expects.
type storeConnectorAdapter struct {
	manager *provisioning.Manager
}

func newStoreConnectorAdapter(manager *provisioning.Manager) *storeConnectorAdapter {
	return &storeConnectorAdapter{manager: manager}
}

func (a *storeConnectorAdapter) ConnectBusiness(ctx context.Context, username string) (application.BusinessData, bool, error) {
	store, ok, err := a.manager.ConnectToBusiness(ctx, username)
	if err != nil || !ok {
		return application.BusinessData{}, false, err
	}
	return application.BusinessData{
		Employees:    store.Employees,
		Types:        store.Types,
		Appointments: store.Appointments,
	}, true, nil
}

func runConsole(ctx context.Context, in io.Reader, out io.Writer, auth *application.AuthService, booking *application.BookingService) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "commands: register, register-business, login, employee-add, type-add, book, book-weekly, week, employees, types, quit")

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" {
			return nil
		}
		if err := dispatch(ctx, out, auth, booking, args); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func dispatch(ctx context.Context, out io.Writer, auth *application.AuthService, booking *application.BookingService, args []string) error {
	switch args[0] {
	case "register":
		if len(args) != 6 {
			return errors.New("usage: register <username> <password> <name> <address> <phone>")
		}
		return auth.RegisterCustomer(ctx, application.RegisterCustomerParams{
			Username: args[1], Password: args[2], Name: args[3], Address: args[4], Phone: args[5],
		})

	case "register-business":
		if len(args) != 7 {
			return errors.New("usage: register-business <username> <password> <business-name> <owner> <address> <phone>")
		}
		return auth.RegisterBusiness(ctx, application.RegisterBusinessParams{
			Username: args[1], Password: args[2], BusinessName: args[3], OwnerName: args[4], Address: args[5], Phone: args[6],
		})

	case "login":
		if len(args) != 3 {
			return errors.New("usage: login <username> <password>")
		}
		ok, err := auth.Authenticate(ctx, args[1], args[2])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "rejected")
			return nil
		}
		fmt.Fprintln(out, "ok")
		return nil

	case "employee-add":
		if len(args) != 5 {
			return errors.New("usage: employee-add <business> <name> <address> <phone>")
		}
		employee, err := booking.AddEmployee(ctx, args[1], application.NewEmployeeParams{
			Name: args[2], Address: args[3], Phone: args[4],
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, employee.ID)
		return nil

	case "type-add":
		if len(args) != 5 {
			return errors.New("usage: type-add <business> <name> <cost-cents> <duration>")
		}
		cost, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("bad cost %q", args[3])
		}
		duration, err := time.ParseDuration(args[4])
		if err != nil {
			return fmt.Errorf("bad duration %q", args[4])
		}
		at, err := booking.AddAppointmentType(ctx, args[1], application.NewAppointmentTypeParams{
			Name: args[2], CostCents: cost, Duration: duration,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, at.ID)
		return nil

	case "book":
		if len(args) != 6 {
			return errors.New("usage: book <business> <customer> <employee-id> <type-id> <rfc3339-time>")
		}
		at, err := time.Parse(time.RFC3339, args[5])
		if err != nil {
			return fmt.Errorf("bad time %q", args[5])
		}
		appointment, err := booking.BookAppointment(ctx, args[1], application.BookingParams{
			CustomerUsername: args[2], EmployeeID: args[3], AppointmentTypeID: args[4], At: at,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(out, appointment.ID)
		return nil

	case "book-weekly":
		if len(args) != 7 {
			return errors.New("usage: book-weekly <business> <customer> <employee-id> <type-id> <day> <hh:mm>")
		}
		slot, err := parseWeekSlot(args[5], args[6])
		if err != nil {
			return err
		}
		appointment, err := booking.BookWeekly(ctx, args[1], application.WeeklyBookingParams{
			CustomerUsername: args[2], EmployeeID: args[3], AppointmentTypeID: args[4], Slot: slot,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s at %s\n", appointment.ID, appointment.DateAndTime.Format(time.RFC3339))
		return nil

	case "week":
		if len(args) != 2 {
			return errors.New("usage: week <business>")
		}
		appointments, err := booking.WeekAppointments(ctx, args[1])
		if err != nil {
			return err
		}
		for _, a := range appointments {
			fmt.Fprintf(out, "%s %s customer=%s employee=%s\n", a.ID, a.DateAndTime.Format(time.RFC3339), a.CustomerUsername, a.EmployeeID)
		}
		return nil

	case "employees":
		if len(args) != 2 {
			return errors.New("usage: employees <business>")
		}
		employees, err := booking.ListEmployees(ctx, args[1])
		if err != nil {
			return err
		}
		for _, e := range employees {
			fmt.Fprintf(out, "%s %s\n", e.ID, e.Name)
		}
		return nil

	case "types":
		if len(args) != 2 {
			return errors.New("usage: types <business>")
		}
		types, err := booking.ListAppointmentTypes(ctx, args[1])
		if err != nil {
			return err
		}
		for _, at := range types {
			fmt.Fprintf(out, "%s %s %dc %s\n", at.ID, at.Name, at.CostCents, at.Duration)
		}
		return nil
	}

	return fmt.Errorf("unknown command %q", args[0])
}

// parseWeekSlot builds a weekly slot from a day name and an HH:MM clock
// time.
func parseWeekSlot(dayName, clock string) (schedule.WeekDate, error) {
	day, err := parseDay(dayName)
	if err != nil {
		return schedule.WeekDate{}, err
	}

	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return schedule.WeekDate{}, fmt.Errorf("bad clock time %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return schedule.WeekDate{}, fmt.Errorf("bad clock time %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return schedule.WeekDate{}, fmt.Errorf("bad clock time %q", clock)
	}

	slot, err := schedule.NewWeekDate(day, 0)
	if err != nil {
		return schedule.WeekDate{}, err
	}
	if !slot.SetTimeOfDayHMS(hour, minute, 0) {
		return schedule.WeekDate{}, fmt.Errorf("bad clock time %q", clock)
	}
	return slot, nil
}

func parseDay(name string) (schedule.Day, error) {
	for day := schedule.Monday; day <= schedule.Sunday; day++ {
		if strings.EqualFold(day.String(), name) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", name)
}
