package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
	"github.com/google/uuid"
)

// Sweep implements attendance.AttendanceService.
//
// Every design of yesterday and today whose window plus grace is over gets settled:
// no record becomes missing, an open record is closed late at the window end.
// Each mutation is conditional, so overlapping sweeps and requests count once.
func (a *AttendanceServiceImpl) Sweep(ctx context.Context) (attendance.SweepResult, error) {
	var result attendance.SweepResult

	now := a.clock.Now()
	today := timewindow.Day(now)
	employees := make(map[string]struct{})

	for _, date := range []time.Time{today.AddDate(0, 0, -1), today} {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		designs, err := a.ScheduleRepository.ListActiveByDate(ctx, date)
		if err != nil {
			return result, fmt.Errorf("failed to list designs of %s: %w", date.Format(time.DateOnly), err)
		}

		candidates, err := a.resolveCandidates(ctx, designs)
		if err != nil {
			return result, err
		}

		for _, c := range candidates {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			day := timewindow.DayIn(c.design.Date, now.Location())
			if !a.resolver.Elapsed(now, day, c.window) {
				continue
			}
			employees[c.design.EmployeeID] = struct{}{}

			if err := a.settle(ctx, c, day, now, &result); err != nil {
				result.Failed++
				slog.Error("Failed to settle elapsed shift",
					"employee_id", c.design.EmployeeID,
					"shift_code", c.design.ShiftCode,
					"date", c.design.DateString(),
					"error", err)
			}
		}
	}

	result.Employees = len(employees)

	slog.Info("Attendance sweep finished",
		"employees", result.Employees,
		"missing", result.Missing,
		"force_closed", result.ForceClosed,
		"failed", result.Failed)

	return result, nil
}

func (a *AttendanceServiceImpl) settle(ctx context.Context, c candidate, day, now time.Time, result *attendance.SweepResult) error {
	rec, err := a.AttendanceRepository.GetByShift(ctx, c.design.EmployeeID, day, c.design.ShiftCode)
	if err != nil {
		return err
	}

	switch {
	case rec == nil:
		return a.markMissing(ctx, c.design, day, result)
	case rec.IsOpen():
		return a.forceClose(ctx, *rec, c, day, result)
	default:
		return nil
	}
}

func (a *AttendanceServiceImpl) markMissing(ctx context.Context, d schedule.ShiftDesign, day time.Time, result *attendance.SweepResult) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate attendance id: %w", err)
	}

	missing := attendance.StatusMissing
	rec := attendance.Record{
		ID:             id.String(),
		EmployeeID:     d.EmployeeID,
		Date:           day,
		ShiftCode:      d.ShiftCode,
		DepartmentName: d.DepartmentName,
		Position:       d.Position,
		Status:         &missing,
	}

	inserted, err := a.AttendanceRepository.CreateMissing(ctx, rec)
	if err != nil {
		return err
	}
	if !inserted {
		return nil
	}

	result.Missing++
	a.applyStats(ctx, rec, rec.StatsDelta(0))
	return nil
}

// forceClose ends the record at the window end regardless of when the sweep runs,
// so a missed sweep cycle never turns into worked time.
func (a *AttendanceServiceImpl) forceClose(ctx context.Context, rec attendance.Record, c candidate, day time.Time, result *attendance.SweepResult) error {
	_, closeAt := c.window.Bounds(day)
	if rec.CheckInTime != nil && rec.CheckInTime.After(closeAt) {
		closeAt = *rec.CheckInTime
	}
	rec = closeRecord(rec, closeAt, timewindow.StatusLate, true)

	closed, err := a.AttendanceRepository.Close(ctx, rec)
	if err != nil {
		return err
	}
	if !closed {
		return nil
	}

	result.ForceClosed++
	a.applyStats(ctx, rec, rec.StatsDelta(c.duration))
	return nil
}
