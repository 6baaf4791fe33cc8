package schedule

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/stats"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc       schedule.ScheduleService
	schedules *fakeScheduleRepo
	employees *fakeEmployeeRepo
	stats     *fakeStatsRepo
	shifts    map[string]shift.Shift
}

func window(start, end string) timewindow.Window {
	s, _ := timewindow.ParseMinute(start)
	e, _ := timewindow.ParseMinute(end)
	return timewindow.Window{{Start: s, End: e}}
}

func date(s string) time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return d
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		schedules: &fakeScheduleRepo{},
		employees: &fakeEmployeeRepo{employees: map[string]employee.Employee{
			"emp-1": {
				ID:                "emp-1",
				Name:              "Sari",
				Status:            employee.StatusActive,
				TotalTimePerMonth: 9600,
				Departments: []employee.Department{
					{Name: "Kitchen", Position: "Cook"},
					{Name: "Bar", Position: "Bartender"},
				},
			},
		}},
		stats: &fakeStatsRepo{rows: make(map[stats.Period]stats.MonthlyStats)},
		shifts: map[string]shift.Shift{
			"M": {Code: "M", Name: "Morning", Category: "regular", TimeSlot: window("08:00", "12:00")},
			"A": {Code: "A", Name: "Afternoon", Category: "regular", TimeSlot: window("11:45", "15:00")},
			"E": {Code: "E", Name: "Early afternoon", Category: "regular", TimeSlot: window("12:30", "16:00")},
			"L": {Code: "L", Name: "Lunch", Category: "regular", TimeSlot: window("12:15", "16:00")},
		},
	}

	clk := &clock.Fixed{T: time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)}
	env.svc = NewScheduleService(env.schedules, env.employees, &fakeShiftRepo{shifts: env.shifts}, env.stats, clk)
	return env
}

func (env *testEnv) existing(department, code, day string) {
	sh := env.shifts[code]
	env.schedules.designs = append(env.schedules.designs, schedule.ShiftDesign{
		ID:             department + code + day,
		EmployeeID:     "emp-1",
		DepartmentName: department,
		Date:           date(day),
		ShiftCode:      code,
		TimeSlot:       sh.TimeSlot,
	})
}

func adminCtx() context.Context {
	return user.WithPrincipal(context.Background(), user.Principal{UserID: "admin", Role: user.RoleAdmin})
}

func managerCtx(departments ...string) context.Context {
	return user.WithPrincipal(context.Background(), user.Principal{
		UserID:      "mgr",
		Role:        user.RoleManager,
		EmployeeID:  "emp-mgr",
		Departments: departments,
	})
}

func assign(code, department string, dates ...string) schedule.AssignShiftsRequest {
	return schedule.AssignShiftsRequest{
		EmployeeID:     "emp-1",
		DepartmentName: department,
		ShiftCode:      code,
		Dates:          dates,
	}
}

func errorFor(resp schedule.AssignShiftsResponse, day string) string {
	for _, e := range resp.ErrorDates {
		if e.Date == day {
			return e.Message
		}
	}
	return ""
}

func TestAssignShifts_OverlapAcrossDepartments(t *testing.T) {
	env := newTestEnv(t)
	env.existing("Bar", "A", "2025-03-10")

	resp, err := env.svc.AssignShifts(managerCtx("Kitchen"), assign("M", "Kitchen", "2025-03-10"))

	require.NoError(t, err)
	assert.Empty(t, resp.AssignedDates)
	require.Len(t, resp.ErrorDates, 1)
	assert.Equal(t, schedule.ErrShiftConflict.Error(), errorFor(resp, "2025-03-10"))
	assert.Len(t, env.schedules.designs, 1)
}

func TestAssignShifts_MinimumGap(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		conflict bool
	}{
		{name: "exactly thirty minutes after", code: "E", conflict: false},
		{name: "fifteen minutes after", code: "L", conflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.existing("Kitchen", "M", "2025-03-10")

			resp, err := env.svc.AssignShifts(adminCtx(), assign(tt.code, "Kitchen", "2025-03-10"))

			require.NoError(t, err)
			if tt.conflict {
				assert.Equal(t, schedule.ErrShiftConflict.Error(), errorFor(resp, "2025-03-10"))
			} else {
				assert.Equal(t, []string{"2025-03-10"}, resp.AssignedDates)
			}
		})
	}
}

func TestAssignShifts_DuplicateReportedBeforeOverlap(t *testing.T) {
	env := newTestEnv(t)
	env.existing("Kitchen", "M", "2025-03-10")

	resp, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen", "2025-03-10"))

	require.NoError(t, err)
	assert.Equal(t, schedule.ErrDuplicateShift.Error(), errorFor(resp, "2025-03-10"))
}

func TestAssignShifts_SameCodeOtherDepartmentConflicts(t *testing.T) {
	env := newTestEnv(t)
	env.existing("Bar", "M", "2025-03-10")

	resp, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen", "2025-03-10"))

	require.NoError(t, err)
	assert.Equal(t, schedule.ErrShiftConflict.Error(), errorFor(resp, "2025-03-10"))
}

func TestAssignShifts_RepeatedDateInBatch(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen", "2025-03-10", "2025-03-10"))

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-10"}, resp.AssignedDates)
	assert.Equal(t, schedule.ErrDuplicateShift.Error(), errorFor(resp, "2025-03-10"))
}

func TestAssignShifts_DayOff(t *testing.T) {
	env := newTestEnv(t)
	env.employees.dayOffs = []employee.DayOff{
		{ID: "off-1", EmployeeID: "emp-1", StartDate: date("2025-03-12"), EndDate: date("2025-03-13"), Status: employee.DayOffAllowed},
		{ID: "off-2", EmployeeID: "emp-1", StartDate: date("2025-03-14"), EndDate: date("2025-03-14"), Status: employee.DayOffRejected},
	}

	resp, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen", "2025-03-11", "2025-03-12", "2025-03-13", "2025-03-14"))

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-11", "2025-03-14"}, resp.AssignedDates)
	assert.Equal(t, schedule.ErrDayOffConflict.Error(), errorFor(resp, "2025-03-12"))
	assert.Equal(t, schedule.ErrDayOffConflict.Error(), errorFor(resp, "2025-03-13"))
}

func TestAssignShifts_InvalidDateReportedPerDate(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen", "2025/03/10", "2025-03-11"))

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-11"}, resp.AssignedDates)
	assert.Equal(t, schedule.ErrInvalidDateFormat.Error(), errorFor(resp, "2025/03/10"))
}

func TestAssignShifts_PartialSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.existing("Bar", "A", "2025-03-11")

	resp, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen", "2025-03-10", "2025-03-11", "2025-03-12"))

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-10", "2025-03-12"}, resp.AssignedDates)
	require.Len(t, resp.ErrorDates, 1)
	assert.Equal(t, "2025-03-11", resp.ErrorDates[0].Date)

	require.Len(t, resp.UpdatedSchedule, 2)
	assert.Equal(t, "2025-03-10", resp.UpdatedSchedule[0].Date)
	assert.Equal(t, "M", resp.UpdatedSchedule[0].ShiftDesign[0].ShiftCode)
	assert.Equal(t, "Cook", resp.UpdatedSchedule[0].ShiftDesign[0].Position)
}

func TestAssignShifts_SuccessSetIndependentOfOrder(t *testing.T) {
	dates := []string{"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13"}
	reversed := []string{"2025-03-13", "2025-03-12", "2025-03-11", "2025-03-10"}

	run := func(order []string) []string {
		env := newTestEnv(t)
		env.existing("Bar", "A", "2025-03-11")
		env.existing("Kitchen", "M", "2025-03-13")
		resp, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen", order...))
		require.NoError(t, err)
		assert.Len(t, resp.ErrorDates, 2)
		sort.Strings(resp.AssignedDates)
		return resp.AssignedDates
	}

	assert.Equal(t, run(dates), run(reversed))
}

func TestAssignShifts_BudgetDecrements(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen", "2025-03-10", "2025-03-11"))
	require.NoError(t, err)
	require.Len(t, resp.UpdatedSchedule, 2)
	assert.Equal(t, 9360, resp.UpdatedSchedule[0].ShiftDesign[0].TimeLeft)
	assert.Equal(t, 9120, resp.UpdatedSchedule[1].ShiftDesign[0].TimeLeft)

	row := env.stats.rows[stats.Period{EmployeeID: "emp-1", Year: 2025, Month: time.March}]
	assert.Equal(t, 9600, row.DefaultScheduleTimes)
	assert.Equal(t, 9120, row.RealisticScheduleTimes)
}

func TestAssignShifts_BudgetContinuesFromStoredRow(t *testing.T) {
	env := newTestEnv(t)
	p := stats.Period{EmployeeID: "emp-1", Year: 2025, Month: time.April}
	env.stats.rows[p] = stats.MonthlyStats{EmployeeID: "emp-1", Year: 2025, Month: time.April,
		DefaultScheduleTimes: 9600, RealisticScheduleTimes: 5000}

	resp, err := env.svc.AssignShifts(adminCtx(), assign("A", "Bar", "2025-03-31", "2025-04-01"))

	require.NoError(t, err)
	require.Len(t, resp.UpdatedSchedule, 2)
	assert.Equal(t, 9600-195, resp.UpdatedSchedule[0].ShiftDesign[0].TimeLeft)
	assert.Equal(t, 5000-195, resp.UpdatedSchedule[1].ShiftDesign[0].TimeLeft)
	assert.Equal(t, 4805, env.stats.rows[p].RealisticScheduleTimes)
}

func TestAssignShifts_CreateFailureIsPerDate(t *testing.T) {
	env := newTestEnv(t)
	env.schedules.createErr = errors.New("connection refused")

	resp, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen", "2025-03-10"))

	require.NoError(t, err)
	assert.Equal(t, "failed to assign shift", errorFor(resp, "2025-03-10"))
	assert.Empty(t, env.stats.rows)
}

func TestAssignShifts_RequestRejections(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		req     schedule.AssignShiftsRequest
		wantErr error
	}{
		{name: "manager of other department", ctx: managerCtx("Bar"), req: assign("M", "Kitchen", "2025-03-10"), wantErr: user.ErrOutOfScope},
		{name: "employee role", ctx: user.WithPrincipal(context.Background(), user.Principal{Role: user.RoleEmployee, EmployeeID: "emp-1"}), req: assign("M", "Kitchen", "2025-03-10"), wantErr: user.ErrOutOfScope},
		{name: "no principal", ctx: context.Background(), req: assign("M", "Kitchen", "2025-03-10"), wantErr: user.ErrPrincipalMissing},
		{name: "not a member", ctx: adminCtx(), req: assign("M", "Garden", "2025-03-10"), wantErr: employee.ErrNotInDepartment},
		{name: "unknown shift", ctx: adminCtx(), req: assign("X", "Kitchen", "2025-03-10"), wantErr: shift.ErrShiftNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.svc.AssignShifts(tt.ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.schedules.designs)
		})
	}
}

func TestAssignShifts_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.AssignShifts(adminCtx(), assign("M", "Kitchen"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dates")
}

func TestGetSchedules(t *testing.T) {
	env := newTestEnv(t)
	env.existing("Kitchen", "M", "2025-03-10")
	env.existing("Bar", "A", "2025-03-11")
	env.existing("Kitchen", "M", "2025-04-01")

	resp, err := env.svc.GetSchedules(adminCtx(), schedule.ScheduleFilter{EmployeeID: "emp-1"})

	require.NoError(t, err)
	assert.Equal(t, "2025-03", resp.Month)
	require.Len(t, resp.Departments, 2)
	assert.Equal(t, "Kitchen", resp.Departments[0].DepartmentName)
	require.Len(t, resp.Departments[0].Schedules, 1)
	assert.Equal(t, "2025-03-10", resp.Departments[0].Schedules[0].Date)
	assert.Equal(t, "Bar", resp.Departments[1].DepartmentName)

	april, err := env.svc.GetSchedules(adminCtx(), schedule.ScheduleFilter{EmployeeID: "emp-1", Month: "2025-04"})
	require.NoError(t, err)
	require.Len(t, april.Departments, 1)

	_, err = env.svc.GetSchedules(managerCtx("Garden"), schedule.ScheduleFilter{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, user.ErrOutOfScope)
}
