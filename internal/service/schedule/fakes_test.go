package schedule

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/stats"
)

type fakeScheduleRepo struct {
	designs   []schedule.ShiftDesign
	createErr error
}

func (f *fakeScheduleRepo) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]schedule.ShiftDesign, error) {
	var out []schedule.ShiftDesign
	for _, d := range f.designs {
		if d.EmployeeID == employeeID && d.DateString() == date.Format(time.DateOnly) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]schedule.ShiftDesign, error) {
	lo, hi := from.Format(time.DateOnly), to.Format(time.DateOnly)
	var out []schedule.ShiftDesign
	for _, d := range f.designs {
		if d.EmployeeID == employeeID && d.DateString() >= lo && d.DateString() <= hi {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListActiveByDate(ctx context.Context, date time.Time) ([]schedule.ShiftDesign, error) {
	return nil, nil
}

func (f *fakeScheduleRepo) Create(ctx context.Context, design schedule.ShiftDesign) (schedule.ShiftDesign, error) {
	if f.createErr != nil {
		return schedule.ShiftDesign{}, f.createErr
	}
	for _, d := range f.designs {
		if d.EmployeeID == design.EmployeeID && d.DepartmentName == design.DepartmentName &&
			d.DateString() == design.DateString() && d.ShiftCode == design.ShiftCode {
			return schedule.ShiftDesign{}, schedule.ErrDuplicateShift
		}
	}
	design.CreatedAt = time.Now()
	f.designs = append(f.designs, design)
	return design, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
	dayOffs   []employee.DayOff
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) ListAllowedDayOffs(ctx context.Context, employeeID string, from, to time.Time) ([]employee.DayOff, error) {
	var out []employee.DayOff
	for _, d := range f.dayOffs {
		if d.EmployeeID == employeeID && d.Status == employee.DayOffAllowed && !d.EndDate.Before(from) && !d.StartDate.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeShiftRepo struct {
	shifts map[string]shift.Shift
}

func (f *fakeShiftRepo) GetByCode(ctx context.Context, code string) (shift.Shift, error) {
	s, ok := f.shifts[code]
	if !ok {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return s, nil
}

func (f *fakeShiftRepo) GetByCodes(ctx context.Context, codes []string) (map[string]shift.Shift, error) {
	out := make(map[string]shift.Shift)
	for _, c := range codes {
		if s, ok := f.shifts[c]; ok {
			out[c] = s
		}
	}
	return out, nil
}

type fakeStatsRepo struct {
	rows map[stats.Period]stats.MonthlyStats
}

func (f *fakeStatsRepo) Get(ctx context.Context, p stats.Period) (*stats.MonthlyStats, error) {
	row, ok := f.rows[p]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeStatsRepo) Apply(ctx context.Context, p stats.Period, delta stats.Delta) error {
	return nil
}

func (f *fakeStatsRepo) ApplyExisting(ctx context.Context, p stats.Period, delta stats.Delta) (bool, error) {
	return false, nil
}

func (f *fakeStatsRepo) ReserveBudget(ctx context.Context, p stats.Period, defaultMinutes, minutes int) error {
	row, ok := f.rows[p]
	if !ok {
		row = stats.MonthlyStats{
			EmployeeID:             p.EmployeeID,
			Year:                   p.Year,
			Month:                  p.Month,
			DefaultScheduleTimes:   defaultMinutes,
			RealisticScheduleTimes: defaultMinutes,
		}
	}
	row.RealisticScheduleTimes -= minutes
	f.rows[p] = row
	return nil
}

func (f *fakeStatsRepo) ReplaceAttendance(ctx context.Context, s stats.MonthlyStats) error {
	return nil
}
