package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/booking-core/internal/persistence"
)

// EmployeeRepository implements persistence.EmployeeRepository against one
// business store.
type EmployeeRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewEmployeeRepository creates an employee repository on the given pool.
func NewEmployeeRepository(pool *ConnectionPool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool, mapper: NewErrorMapper()}
}

// AddEmployee inserts an employee row.
func (r *EmployeeRepository) AddEmployee(ctx context.Context, employee persistence.Employee) error {
	if employee.ID == "" {
		return fmt.Errorf("%w: empty employee id", persistence.ErrConstraintViolation)
	}

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO employee (id, name, address, phone) VALUES (?, ?, ?, ?)`,
		employee.ID, employee.Name, employee.Address, employee.Phone,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// GetEmployee returns the employee with the given id.
func (r *EmployeeRepository) GetEmployee(ctx context.Context, id string) (persistence.Employee, error) {
	if id == "" {
		return persistence.Employee{}, persistence.ErrNotFound
	}

	var employee persistence.Employee
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, address, phone FROM employee WHERE id = ?`, id,
	).Scan(&employee.ID, &employee.Name, &employee.Address, &employee.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Employee{}, persistence.ErrNotFound
		}
		return persistence.Employee{}, r.mapper.MapError(err)
	}
	return employee, nil
}

// ListEmployees returns all employees ordered by name then id.
func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]persistence.Employee, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, name, address, phone FROM employee ORDER BY name ASC, id ASC`,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var employees []persistence.Employee
	for rows.Next() {
		var employee persistence.Employee
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.Address, &employee.Phone); err != nil {
			return nil, r.mapper.MapError(err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return employees, nil
}
