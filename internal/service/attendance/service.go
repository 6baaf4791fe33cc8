package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/stats"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/google/uuid"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	schedule.ScheduleRepository
	shift.ShiftRepository
	stats.StatsRepository
	clock    clock.Clock
	resolver timewindow.Resolver
}

// candidate is a scheduled shift of today with its resolved window.
type candidate struct {
	design   schedule.ShiftDesign
	window   timewindow.Window
	duration time.Duration
}

// Signal implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Signal(ctx context.Context, req attendance.SignalRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := a.authorizedEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !emp.IsActive() {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	now := a.clock.Now()
	today := timewindow.Day(now)

	designs, err := a.ScheduleRepository.ListByEmployeeAndDate(ctx, emp.ID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's schedule: %w", err)
	}
	if len(designs) == 0 {
		return attendance.AttendanceResponse{}, attendance.ErrNoScheduleToday
	}

	candidates, err := a.resolveCandidates(ctx, designs)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	match, outcome, err := a.match(now, candidates, req.Kind)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.Kind == timewindow.CheckIn {
		return a.checkIn(ctx, match, today, now, outcome)
	}
	return a.checkOut(ctx, match, today, now, outcome)
}

// match returns the first candidate accepting the signal.
func (a *AttendanceServiceImpl) match(now time.Time, candidates []candidate, kind timewindow.Kind) (candidate, timewindow.Outcome, error) {
	if len(candidates) == 0 {
		return candidate{}, timewindow.Outcome{}, attendance.ErrNoMatchingShift
	}

	tooEarly := false
	for _, c := range candidates {
		outcome := a.resolver.Classify(now, c.window, kind)
		if outcome.Accepted {
			return c, outcome, nil
		}
		if outcome.Reason == timewindow.ReasonTooEarly {
			tooEarly = true
		}
	}

	if tooEarly {
		return candidate{}, timewindow.Outcome{}, attendance.ErrTooEarly
	}
	return candidate{}, timewindow.Outcome{}, attendance.ErrTooLate
}

func (a *AttendanceServiceImpl) checkIn(ctx context.Context, c candidate, today, now time.Time, outcome timewindow.Outcome) (attendance.AttendanceResponse, error) {
	existing, err := a.AttendanceRepository.GetByShift(ctx, c.design.EmployeeID, today, c.design.ShiftCode)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	status := outcome.Status
	created, err := a.AttendanceRepository.CreateCheckIn(ctx, attendance.Record{
		ID:             id.String(),
		EmployeeID:     c.design.EmployeeID,
		Date:           today,
		ShiftCode:      c.design.ShiftCode,
		DepartmentName: c.design.DepartmentName,
		Position:       c.design.Position,
		CheckInTime:    &now,
		CheckInStatus:  &status,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance check-in recorded",
		"employee_id", created.EmployeeID,
		"shift_code", created.ShiftCode,
		"status", status)

	return created.ToResponse(), nil
}

func (a *AttendanceServiceImpl) checkOut(ctx context.Context, c candidate, today, now time.Time, outcome timewindow.Outcome) (attendance.AttendanceResponse, error) {
	existing, err := a.AttendanceRepository.GetByShift(ctx, c.design.EmployeeID, today, c.design.ShiftCode)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if existing == nil || !existing.CheckIn {
		return attendance.AttendanceResponse{}, attendance.ErrCheckInRequired
	}
	if existing.CheckOut {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	rec := closeRecord(*existing, now, outcome.Status, false)
	closed, err := a.AttendanceRepository.Close(ctx, rec)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !closed {
		// Closed concurrently, most likely by the sweep
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	a.applyStats(ctx, rec, rec.StatsDelta(c.duration))

	slog.Info("Attendance check-out recorded",
		"employee_id", rec.EmployeeID,
		"shift_code", rec.ShiftCode,
		"status", outcome.Status,
		"worked_minutes", rec.WorkedMinutes())

	return rec.ToResponse(), nil
}

// closeRecord fills the check-out side of an open record.
func closeRecord(rec attendance.Record, at time.Time, status timewindow.Status, auto bool) attendance.Record {
	checked := attendance.StatusChecked
	rec.CheckOut = true
	rec.CheckOutTime = &at
	rec.CheckOutStatus = &status
	rec.AutoClosed = auto
	rec.Status = &checked
	rec.SetWorked(rec.Worked())
	return rec
}

// applyStats adds the record's contribution. The ledger write already happened and is not
// rolled back, a failure leaves the month to be repaired by Reconcile.
func (a *AttendanceServiceImpl) applyStats(ctx context.Context, rec attendance.Record, delta stats.Delta) bool {
	period := stats.PeriodOf(rec.EmployeeID, rec.Date)
	if err := a.StatsRepository.Apply(ctx, period, delta); err != nil {
		slog.Error("Monthly stats out of sync with ledger, reconcile required",
			"employee_id", rec.EmployeeID,
			"attendance_id", rec.ID,
			"year", period.Year,
			"month", int(period.Month),
			"error", err)
		return false
	}
	return true
}

// resolveCandidates pairs designs with catalog windows. The design's snapshot is used when
// the catalog no longer knows the code, designs with neither are skipped.
func (a *AttendanceServiceImpl) resolveCandidates(ctx context.Context, designs []schedule.ShiftDesign) ([]candidate, error) {
	codes := make([]string, 0, len(designs))
	for _, d := range designs {
		codes = append(codes, d.ShiftCode)
	}

	shifts, err := a.ShiftRepository.GetByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to get shifts: %w", err)
	}

	candidates := make([]candidate, 0, len(designs))
	for _, d := range designs {
		c, ok := newCandidate(d, shifts)
		if !ok {
			slog.Warn("Skipping shift design without a usable window",
				"employee_id", d.EmployeeID,
				"shift_code", d.ShiftCode,
				"date", d.DateString())
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func newCandidate(d schedule.ShiftDesign, shifts map[string]shift.Shift) (candidate, bool) {
	if sh, ok := shifts[d.ShiftCode]; ok {
		return candidate{design: d, window: sh.TimeSlot, duration: sh.Duration()}, true
	}
	if d.TimeSlot.Validate() == nil {
		return candidate{design: d, window: d.TimeSlot, duration: d.TimeSlot.Duration()}, true
	}
	return candidate{}, false
}

// authorizedEmployee loads the employee and checks the caller may act for them.
func (a *AttendanceServiceImpl) authorizedEmployee(ctx context.Context, employeeID string) (employee.Employee, error) {
	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return employee.Employee{}, err
	}

	if !principal.CanActFor(emp.ID, emp.DepartmentNames()) {
		return employee.Employee{}, user.ErrOutOfScope
	}
	return emp, nil
}

// UpdateCheckout implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateCheckout(ctx context.Context, req attendance.UpdateCheckoutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := a.authorizedEmployee(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	today := timewindow.Day(a.clock.Now())
	rec, err := a.AttendanceRepository.GetByShift(ctx, req.EmployeeID, today, req.ShiftCode)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if rec == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}
	if !rec.CheckOut {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutRequired
	}

	if req.Odometer != nil {
		rec.CheckoutMetadata.Odometer = req.Odometer
	}
	if req.PhotoURL != nil {
		rec.CheckoutMetadata.PhotoURL = req.PhotoURL
	}

	if err := a.AttendanceRepository.UpdateCheckoutMetadata(ctx, rec.ID, rec.CheckoutMetadata); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return rec.ToResponse(), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if _, err := a.authorizedEmployee(ctx, filter.EmployeeID); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	month := a.clock.Now()
	if filter.Month != "" {
		month, _ = validator.IsValidMonth(filter.Month)
	}
	first, last := timewindow.MonthRange(month)

	records, err := a.AttendanceRepository.ListByEmployeeAndRange(ctx, filter.EmployeeID, first, last)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	monthStats, err := a.StatsRepository.Get(ctx, stats.PeriodOf(filter.EmployeeID, first))
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	resp := attendance.ListAttendanceResponse{
		EmployeeID: filter.EmployeeID,
		Month:      first.Format("2006-01"),
		Records:    make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, rec := range records {
		resp.Records = append(resp.Records, rec.ToResponse())
	}
	if monthStats != nil {
		s := attendance.NewStatsResponse(*monthStats)
		resp.Stats = &s
	}

	return resp, nil
}

// CorrectAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CorrectAttendance(ctx context.Context, req attendance.CorrectAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	old, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !principal.CanManageDepartment(old.DepartmentName) {
		return attendance.AttendanceResponse{}, user.ErrOutOfScope
	}

	sh, err := a.ShiftRepository.GetByCode(ctx, old.ShiftCode)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	corrected, err := a.applyCorrection(old, req, sh.TimeSlot)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	delta := corrected.StatsDelta(sh.Duration()).Add(old.StatsDelta(sh.Duration()).Neg())

	err = a.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := a.AttendanceRepository.UpdateTimes(txCtx, corrected); err != nil {
			return err
		}

		if delta.IsZero() {
			return nil
		}

		period := stats.PeriodOf(corrected.EmployeeID, corrected.Date)
		applied, err := a.StatsRepository.ApplyExisting(txCtx, period, delta)
		if err != nil {
			return err
		}
		if !applied {
			slog.Warn("Monthly stats row missing, correction not reflected in stats",
				"employee_id", corrected.EmployeeID,
				"attendance_id", corrected.ID,
				"year", period.Year,
				"month", int(period.Month))
		}
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	slog.Info("Attendance corrected",
		"attendance_id", corrected.ID,
		"employee_id", corrected.EmployeeID,
		"corrected_by", principal.UserID)

	return corrected.ToResponse(), nil
}

// applyCorrection rewrites times on a copy of rec and re-derives statuses against w.
func (a *AttendanceServiceImpl) applyCorrection(rec attendance.Record, req attendance.CorrectAttendanceRequest, w timewindow.Window) (attendance.Record, error) {
	loc := a.clock.Location()
	day := timewindow.DayIn(rec.Date, loc)

	if req.CheckInTime != nil {
		in, _ := validator.IsValidDateTime(*req.CheckInTime)
		in = in.In(loc)
		status := correctedStatus(a.resolver.Classify(onDay(in, day), w, timewindow.CheckIn), timewindow.CheckIn)
		rec.CheckIn = true
		rec.CheckInTime = &in
		rec.CheckInStatus = &status
	}

	if req.CheckOutTime != nil {
		if !rec.CheckIn {
			return attendance.Record{}, attendance.ErrCheckInRequired
		}
		out, _ := validator.IsValidDateTime(*req.CheckOutTime)
		out = out.In(loc)
		status := correctedStatus(a.resolver.Classify(onDay(out, day), w, timewindow.CheckOut), timewindow.CheckOut)
		rec = closeRecord(rec, out, status, false)
	}

	if rec.CheckOut {
		if !rec.CheckOutTime.After(*rec.CheckInTime) {
			return attendance.Record{}, attendance.ErrInvalidCorrection
		}
		rec.AutoClosed = false
		rec.SetWorked(rec.Worked())
	} else {
		// Only check-in known, the record is open again
		rec.Status = nil
	}

	return rec, nil
}

// onDay moves the clock time of t onto day so the window is anchored on the record's date.
func onDay(t, day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, day.Location())
}

// correctedStatus maps rejected outcomes of a manual correction to a status:
// an early arrival counts on time, anything else late.
func correctedStatus(o timewindow.Outcome, kind timewindow.Kind) timewindow.Status {
	if o.Accepted {
		return o.Status
	}
	if kind == timewindow.CheckIn && o.Reason == timewindow.ReasonTooEarly {
		return timewindow.StatusOnTime
	}
	return timewindow.StatusLate
}

// Reconcile implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Reconcile(ctx context.Context, req attendance.ReconcileRequest) (attendance.StatsResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	principal, err := user.PrincipalFromContext(ctx)
	if err != nil {
		return attendance.StatsResponse{}, err
	}
	if !principal.IsAdmin() {
		return attendance.StatsResponse{}, user.ErrAdminPrivilegeRequired
	}

	month, _ := validator.IsValidMonth(req.Month)
	first, last := timewindow.MonthRange(month)

	records, err := a.AttendanceRepository.ListByEmployeeAndRange(ctx, req.EmployeeID, first, last)
	if err != nil {
		return attendance.StatsResponse{}, err
	}

	codes := make([]string, 0, len(records))
	for _, rec := range records {
		codes = append(codes, rec.ShiftCode)
	}
	shifts, err := a.ShiftRepository.GetByCodes(ctx, codes)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to get shifts: %w", err)
	}

	var total stats.Delta
	for _, rec := range records {
		sh, ok := shifts[rec.ShiftCode]
		d := rec.StatsDelta(sh.Duration())
		if !ok {
			// Unknown shift length, no overtime can be derived
			d.Overtime = 0
		}
		total = total.Add(d)
	}

	period := stats.PeriodOf(req.EmployeeID, first)
	err = a.StatsRepository.ReplaceAttendance(ctx, stats.MonthlyStats{
		EmployeeID:           period.EmployeeID,
		Year:                 period.Year,
		Month:                period.Month,
		DateOnTime:           total.OnTime,
		DateLate:             total.Late,
		DateMissing:          total.Missing,
		AttendanceTotalTimes: total.TotalTimes,
		AttendanceOvertime:   total.Overtime,
	})
	if err != nil {
		return attendance.StatsResponse{}, err
	}

	reconciled, err := a.StatsRepository.Get(ctx, period)
	if err != nil {
		return attendance.StatsResponse{}, err
	}
	if reconciled == nil {
		return attendance.StatsResponse{}, errors.Join(stats.ErrStatsNotFound, fmt.Errorf("employee %s %s", req.EmployeeID, req.Month))
	}

	slog.Info("Monthly stats reconciled",
		"employee_id", req.EmployeeID,
		"month", req.Month,
		"records", len(records))

	return attendance.NewStatsResponse(*reconciled), nil
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	scheduleRepo schedule.ScheduleRepository,
	shiftRepo shift.ShiftRepository,
	statsRepo stats.StatsRepository,
	clk clock.Clock,
	resolver timewindow.Resolver,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		ScheduleRepository:   scheduleRepo,
		ShiftRepository:      shiftRepo,
		StatsRepository:      statsRepo,
		clock:                clk,
		resolver:             resolver,
	}
}
