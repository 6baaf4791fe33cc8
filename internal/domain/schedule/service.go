package schedule

import "context"

type ScheduleService interface {
	// AssignShifts places one shift on many dates, reporting per-date failures
	AssignShifts(ctx context.Context, req AssignShiftsRequest) (AssignShiftsResponse, error)

	// GetSchedules returns the month projection of an employee's schedules
	GetSchedules(ctx context.Context, filter ScheduleFilter) (ScheduleResponse, error)
}
