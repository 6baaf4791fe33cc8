package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/stats"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/google/uuid"
)

// MinShiftGap is the minimum distance between two shifts of one employee on a date.
// It applies on both sides: a new shift must end at least this long before an existing
// one starts, and start at least this long after it ends.
const MinShiftGap = 30 * time.Minute

type scheduleServiceImpl struct {
	schedule.ScheduleRepository
	employee.EmployeeRepository
	shift.ShiftRepository
	stats.StatsRepository
	clock clock.Clock
	gap   time.Duration
}

// targetDate is a requested date that parsed.
type targetDate struct {
	raw  string
	date time.Time
}

// assignment carries the per-request state of one AssignShifts call.
type assignment struct {
	employee employee.Employee
	shift    shift.Shift
	position string
	dayOffs  []employee.DayOff
	// existing holds every design of the employee by date across departments
	existing map[string][]schedule.ShiftDesign
	// realistic is the remaining budget per month, reservations of this batch included
	realistic map[stats.Period]int
}

// AssignShifts implements schedule.ScheduleService.
func (s *scheduleServiceImpl) AssignShifts(ctx context.Context, req schedule.AssignShiftsRequest) (schedule.AssignShiftsResponse, error) {
	if err := req.Validate(); err != nil {
		return schedule.AssignShiftsResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return schedule.AssignShiftsResponse{}, err
	}
	if !principal.CanManageDepartment(req.DepartmentName) {
		return schedule.AssignShiftsResponse{}, user.ErrOutOfScope
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return schedule.AssignShiftsResponse{}, err
	}
	if !emp.IsActive() {
		return schedule.AssignShiftsResponse{}, employee.ErrEmployeeInactive
	}
	membership, ok := emp.Department(req.DepartmentName)
	if !ok {
		return schedule.AssignShiftsResponse{}, employee.ErrNotInDepartment
	}

	sh, err := s.ShiftRepository.GetByCode(ctx, req.ShiftCode)
	if err != nil {
		return schedule.AssignShiftsResponse{}, err
	}

	resp := schedule.AssignShiftsResponse{
		EmployeeID:      emp.ID,
		DepartmentName:  req.DepartmentName,
		ShiftCode:       sh.Code,
		AssignedDates:   []string{},
		UpdatedSchedule: []schedule.DaySchedule{},
		ErrorDates:      []schedule.DateError{},
	}

	var targets []targetDate
	for _, raw := range req.Dates {
		date, ok := validator.IsValidDate(raw)
		if !ok {
			resp.ErrorDates = append(resp.ErrorDates, schedule.DateError{Date: raw, Message: schedule.ErrInvalidDateFormat.Error()})
			continue
		}
		targets = append(targets, targetDate{raw: raw, date: date})
	}
	if len(targets) == 0 {
		return resp, nil
	}

	position := req.Position
	if validator.IsEmpty(position) {
		position = membership.Position
	}

	a, err := s.load(ctx, emp, sh, position, targets)
	if err != nil {
		return schedule.AssignShiftsResponse{}, err
	}

	touched := make([]string, 0, len(targets))
	for _, target := range targets {
		if !slices.Contains(touched, target.raw) {
			touched = append(touched, target.raw)
		}

		if err := s.assignDate(ctx, a, req.DepartmentName, target); err != nil {
			resp.ErrorDates = append(resp.ErrorDates, schedule.DateError{Date: target.raw, Message: dateErrorMessage(err)})
			continue
		}
		resp.AssignedDates = append(resp.AssignedDates, target.raw)
	}

	var departmentDesigns []schedule.ShiftDesign
	for _, day := range touched {
		for _, d := range a.existing[day] {
			if d.DepartmentName == req.DepartmentName {
				departmentDesigns = append(departmentDesigns, d)
			}
		}
	}
	for _, dept := range schedule.GroupByDepartment(departmentDesigns) {
		resp.UpdatedSchedule = append(resp.UpdatedSchedule, dept.Schedules...)
	}

	slog.Info("Shifts assigned",
		"employee_id", emp.ID,
		"department", req.DepartmentName,
		"shift_code", sh.Code,
		"assigned", len(resp.AssignedDates),
		"rejected", len(resp.ErrorDates))

	return resp, nil
}

// load reads everything the batch is checked against in one pass over the requested range.
func (s *scheduleServiceImpl) load(ctx context.Context, emp employee.Employee, sh shift.Shift, position string, targets []targetDate) (*assignment, error) {
	from, to := targets[0].date, targets[0].date
	for _, t := range targets[1:] {
		if t.date.Before(from) {
			from = t.date
		}
		if t.date.After(to) {
			to = t.date
		}
	}

	dayOffs, err := s.EmployeeRepository.ListAllowedDayOffs(ctx, emp.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get day offs: %w", err)
	}

	designs, err := s.ScheduleRepository.ListByEmployeeAndRange(ctx, emp.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing schedule: %w", err)
	}

	a := &assignment{
		employee:  emp,
		shift:     sh,
		position:  position,
		dayOffs:   dayOffs,
		existing:  make(map[string][]schedule.ShiftDesign),
		realistic: make(map[stats.Period]int),
	}
	for _, d := range designs {
		a.existing[d.DateString()] = append(a.existing[d.DateString()], d)
	}

	for _, t := range targets {
		period := stats.PeriodOf(emp.ID, t.date)
		if _, ok := a.realistic[period]; ok {
			continue
		}
		row, err := s.StatsRepository.Get(ctx, period)
		if err != nil {
			return nil, fmt.Errorf("failed to get monthly stats: %w", err)
		}
		if row == nil {
			a.realistic[period] = emp.TotalTimePerMonth
		} else {
			a.realistic[period] = row.RealisticScheduleTimes
		}
	}

	return a, nil
}

func (s *scheduleServiceImpl) assignDate(ctx context.Context, a *assignment, department string, target targetDate) error {
	for _, off := range a.dayOffs {
		if off.Covers(target.date) {
			return schedule.ErrDayOffConflict
		}
	}

	minutes := int(a.shift.Duration() / time.Minute)
	period := stats.PeriodOf(a.employee.ID, target.date)
	timeLeft := a.realistic[period] - minutes

	sameDay := a.existing[target.raw]
	for _, d := range sameDay {
		if d.DepartmentName == department && d.ShiftCode == a.shift.Code {
			return schedule.ErrDuplicateShift
		}
	}
	for _, d := range sameDay {
		if timewindow.Overlaps(d.TimeSlot, a.shift.TimeSlot, s.gap) {
			return schedule.ErrShiftConflict
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate shift design id: %w", err)
	}

	created, err := s.ScheduleRepository.Create(ctx, schedule.ShiftDesign{
		ID:             id.String(),
		EmployeeID:     a.employee.ID,
		DepartmentName: department,
		Date:           target.date,
		Position:       a.position,
		ShiftCode:      a.shift.Code,
		TimeSlot:       a.shift.TimeSlot,
		ShiftCategory:  a.shift.Category,
		TimeLeft:       timeLeft,
	})
	if err != nil {
		return err
	}

	if err := s.StatsRepository.ReserveBudget(ctx, period, a.employee.TotalTimePerMonth, minutes); err != nil {
		slog.Error("Monthly budget out of sync with schedule, reconcile required",
			"employee_id", a.employee.ID,
			"date", target.raw,
			"shift_code", a.shift.Code,
			"error", err)
	}

	a.realistic[period] = timeLeft
	a.existing[target.raw] = append(a.existing[target.raw], created)
	return nil
}

// dateErrorMessage keeps infrastructure details out of the per-date report.
func dateErrorMessage(err error) string {
	for _, known := range []error{
		schedule.ErrDayOffConflict,
		schedule.ErrDuplicateShift,
		schedule.ErrShiftConflict,
		schedule.ErrInvalidDateFormat,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	slog.Error("Failed to assign shift", "error", err)
	return "failed to assign shift"
}

// GetSchedules implements schedule.ScheduleService.
func (s *scheduleServiceImpl) GetSchedules(ctx context.Context, filter schedule.ScheduleFilter) (schedule.ScheduleResponse, error) {
	if err := filter.Validate(); err != nil {
		return schedule.ScheduleResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, filter.EmployeeID)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}
	if !principal.CanActFor(emp.ID, emp.DepartmentNames()) {
		return schedule.ScheduleResponse{}, user.ErrOutOfScope
	}

	month := s.clock.Now()
	if filter.Month != "" {
		month, _ = validator.IsValidMonth(filter.Month)
	}
	first, last := timewindow.MonthRange(month)

	designs, err := s.ScheduleRepository.ListByEmployeeAndRange(ctx, emp.ID, first, last)
	if err != nil {
		return schedule.ScheduleResponse{}, err
	}

	departments := schedule.GroupByDepartment(designs)
	if departments == nil {
		departments = []schedule.DepartmentSchedule{}
	}

	return schedule.ScheduleResponse{
		EmployeeID:  emp.ID,
		Month:       first.Format("2006-01"),
		Departments: departments,
	}, nil
}

func NewScheduleService(
	scheduleRepo schedule.ScheduleRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.ShiftRepository,
	statsRepo stats.StatsRepository,
	clk clock.Clock,
) schedule.ScheduleService {
	return &scheduleServiceImpl{
		ScheduleRepository: scheduleRepo,
		EmployeeRepository: employeeRepo,
		ShiftRepository:    shiftRepo,
		StatsRepository:    statsRepo,
		clock:              clk,
		gap:                MinShiftGap,
	}
}
