package schedule

import (
	"context"
	"time"
)

// ScheduleRepository stores shift designs per employee, department and date.
type ScheduleRepository interface {
	// ListByEmployeeAndDate returns the designs of every department of the employee on date
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]ShiftDesign, error)

	// ListByEmployeeAndRange returns designs with from <= date <= to, ordered by department and date
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]ShiftDesign, error)

	// ListActiveByDate returns the designs of all active employees on date
	ListActiveByDate(ctx context.Context, date time.Time) ([]ShiftDesign, error)

	// Create returns ErrDuplicateShift when the shift code is already on that date and department
	Create(ctx context.Context, design ShiftDesign) (ShiftDesign, error)
}
