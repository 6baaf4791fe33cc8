package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	// GetByID returns the employee with its department memberships
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListAllowedDayOffs returns allowed day-off ranges intersecting [from, to]
	ListAllowedDayOffs(ctx context.Context, employeeID string, from, to time.Time) ([]DayOff, error)
}
