package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const shiftDesignColumns = `sd.id, sd.employee_id, sd.department_name, sd.date, sd.position, sd.shift_code,
		sd.time_slot, sd.shift_category, sd.time_left, sd.created_at`

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// ListByEmployeeAndDate implements schedule.ScheduleRepository.
func (s *scheduleRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]schedule.ShiftDesign, error) {
	query := `
		SELECT ` + shiftDesignColumns + `
		FROM shift_designs sd
		WHERE sd.employee_id = $1
		  AND sd.date = $2
		ORDER BY sd.department_name, sd.created_at
	`

	return s.list(ctx, query, employeeID, date)
}

// ListByEmployeeAndRange implements schedule.ScheduleRepository.
func (s *scheduleRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]schedule.ShiftDesign, error) {
	query := `
		SELECT ` + shiftDesignColumns + `
		FROM shift_designs sd
		WHERE sd.employee_id = $1
		  AND sd.date BETWEEN $2 AND $3
		ORDER BY sd.department_name, sd.date, sd.created_at
	`

	return s.list(ctx, query, employeeID, from, to)
}

// ListActiveByDate implements schedule.ScheduleRepository.
func (s *scheduleRepository) ListActiveByDate(ctx context.Context, date time.Time) ([]schedule.ShiftDesign, error) {
	query := `
		SELECT ` + shiftDesignColumns + `
		FROM shift_designs sd
		JOIN employees e ON e.id = sd.employee_id
		WHERE sd.date = $1
		  AND e.status = 'active'
		ORDER BY sd.employee_id, sd.created_at
	`

	return s.list(ctx, query, date)
}

// Create implements schedule.ScheduleRepository.
func (s *scheduleRepository) Create(ctx context.Context, design schedule.ShiftDesign) (schedule.ShiftDesign, error) {
	q := GetQuerier(ctx, s.db)

	timeSlot, err := json.Marshal(design.TimeSlot)
	if err != nil {
		return schedule.ShiftDesign{}, fmt.Errorf("encode time_slot: %w", err)
	}

	query := `
		INSERT INTO shift_designs (
			id, employee_id, department_name, date, position, shift_code,
			time_slot, shift_category, time_left
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (employee_id, department_name, date, shift_code) DO NOTHING
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		design.ID,
		design.EmployeeID,
		design.DepartmentName,
		design.Date,
		design.Position,
		design.ShiftCode,
		timeSlot,
		design.ShiftCategory,
		design.TimeLeft,
	).Scan(&design.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.ShiftDesign{}, schedule.ErrDuplicateShift
		}
		return schedule.ShiftDesign{}, fmt.Errorf("failed to create shift design: %w", err)
	}

	return design, nil
}

func (s *scheduleRepository) list(ctx context.Context, query string, args ...interface{}) ([]schedule.ShiftDesign, error) {
	q := GetQuerier(ctx, s.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift designs: %w", err)
	}
	defer rows.Close()

	var designs []schedule.ShiftDesign
	for rows.Next() {
		var (
			d        schedule.ShiftDesign
			timeSlot []byte
		)
		if err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.DepartmentName, &d.Date, &d.Position, &d.ShiftCode,
			&timeSlot, &d.ShiftCategory, &d.TimeLeft, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shift design: %w", err)
		}
		if err := json.Unmarshal(timeSlot, &d.TimeSlot); err != nil {
			return nil, fmt.Errorf("decode time_slot of shift design %s: %w", d.ID, err)
		}
		designs = append(designs, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return designs, nil
}
