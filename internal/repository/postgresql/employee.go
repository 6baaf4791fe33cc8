package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, name, status, total_time_per_month, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	var status string
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID, &emp.Name, &status, &emp.TotalTimePerMonth, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	emp.Status = employee.Status(status)

	deptQuery := `
		SELECT department_name, position
		FROM employee_departments
		WHERE employee_id = $1
		ORDER BY department_name
	`

	rows, err := q.Query(ctx, deptQuery, id)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to query employee departments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d employee.Department
		if err := rows.Scan(&d.Name, &d.Position); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to scan employee department: %w", err)
		}
		emp.Departments = append(emp.Departments, d)
	}

	if err := rows.Err(); err != nil {
		return employee.Employee{}, fmt.Errorf("rows error: %w", err)
	}

	return emp, nil
}

// ListAllowedDayOffs implements employee.EmployeeRepository.
func (e *employeeRepository) ListAllowedDayOffs(ctx context.Context, employeeID string, from, to time.Time) ([]employee.DayOff, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, employee_id, start_date, end_date, status, created_at
		FROM day_off_requests
		WHERE employee_id = $1
		  AND status = $2
		  AND start_date <= $4
		  AND end_date >= $3
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, employeeID, string(employee.DayOffAllowed), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query day offs: %w", err)
	}
	defer rows.Close()

	var dayOffs []employee.DayOff
	for rows.Next() {
		var d employee.DayOff
		var status string
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.StartDate, &d.EndDate, &status, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan day off: %w", err)
		}
		d.Status = employee.DayOffStatus(status)
		dayOffs = append(dayOffs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return dayOffs, nil
}
