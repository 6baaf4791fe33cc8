package attendance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/schedule"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/stats"
)

type fakeAttendanceRepo struct {
	mu        sync.Mutex
	records   map[string]attendance.Record
	mutations int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Record)}
}

func recordKey(employeeID string, date time.Time, shiftCode string) string {
	return employeeID + "|" + date.Format(time.DateOnly) + "|" + shiftCode
}

func (f *fakeAttendanceRepo) put(rec attendance.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[recordKey(rec.EmployeeID, rec.Date, rec.ShiftCode)] = rec
}

func (f *fakeAttendanceRepo) GetByShift(ctx context.Context, employeeID string, date time.Time, shiftCode string) (*attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[recordKey(employeeID, date, shiftCode)]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) CreateCheckIn(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(record.EmployeeID, record.Date, record.ShiftCode)
	if _, ok := f.records[key]; ok {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}
	record.CheckIn = true
	f.records[key] = record
	f.mutations++
	return record, nil
}

func (f *fakeAttendanceRepo) CreateMissing(ctx context.Context, record attendance.Record) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(record.EmployeeID, record.Date, record.ShiftCode)
	if _, ok := f.records[key]; ok {
		return false, nil
	}
	f.records[key] = record
	f.mutations++
	return true, nil
}

func (f *fakeAttendanceRepo) Close(ctx context.Context, record attendance.Record) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(record.EmployeeID, record.Date, record.ShiftCode)
	current, ok := f.records[key]
	if !ok || !current.IsOpen() {
		return false, nil
	}
	f.records[key] = record
	f.mutations++
	return true, nil
}

func (f *fakeAttendanceRepo) UpdateCheckoutMetadata(ctx context.Context, id string, metadata attendance.CheckoutMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, rec := range f.records {
		if rec.ID == id {
			rec.CheckoutMetadata = metadata
			f.records[key] = rec
			f.mutations++
			return nil
		}
	}
	return attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) UpdateTimes(ctx context.Context, record attendance.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := recordKey(record.EmployeeID, record.Date, record.ShiftCode)
	if _, ok := f.records[key]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	f.records[key] = record
	f.mutations++
	return nil
}

func (f *fakeAttendanceRepo) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lo, hi := from.Format(time.DateOnly), to.Format(time.DateOnly)
	var out []attendance.Record
	for _, rec := range f.records {
		d := rec.Date.Format(time.DateOnly)
		if rec.EmployeeID == employeeID && d >= lo && d <= hi {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) ListAllowedDayOffs(ctx context.Context, employeeID string, from, to time.Time) ([]employee.DayOff, error) {
	return nil, nil
}

type fakeScheduleRepo struct {
	designs []schedule.ShiftDesign
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
	return nil, errors.New("not used")
}

func (f *fakeScheduleRepo) ListActiveByDate(ctx context.Context, date time.Time) ([]schedule.ShiftDesign, error) {
	var out []schedule.ShiftDesign
	for _, d := range f.designs {
		if d.DateString() == date.Format(time.DateOnly) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) Create(ctx context.Context, design schedule.ShiftDesign) (schedule.ShiftDesign, error) {
	f.designs = append(f.designs, design)
	return design, nil
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
	mu   sync.Mutex
	rows map[stats.Period]stats.MonthlyStats
	err  error
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{rows: make(map[stats.Period]stats.MonthlyStats)}
}

func (f *fakeStatsRepo) Get(ctx context.Context, p stats.Period) (*stats.MonthlyStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[p]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (f *fakeStatsRepo) add(p stats.Period, delta stats.Delta) {
	row := f.rows[p]
	row.EmployeeID, row.Year, row.Month = p.EmployeeID, p.Year, p.Month
	row.DateOnTime = row.DateOnTime.Add(delta.OnTime)
	row.DateLate = row.DateLate.Add(delta.Late)
	row.DateMissing = row.DateMissing.Add(delta.Missing)
	row.AttendanceTotalTimes += delta.TotalTimes
	row.AttendanceOvertime += delta.Overtime
	f.rows[p] = row
}

func (f *fakeStatsRepo) Apply(ctx context.Context, p stats.Period, delta stats.Delta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.add(p, delta)
	return nil
}

func (f *fakeStatsRepo) ApplyExisting(ctx context.Context, p stats.Period, delta stats.Delta) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[p]; !ok {
		return false, nil
	}
	f.add(p, delta)
	return true, nil
}

func (f *fakeStatsRepo) ReserveBudget(ctx context.Context, p stats.Period, defaultMinutes, minutes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[p]
	if !ok {
		row = stats.MonthlyStats{EmployeeID: p.EmployeeID, Year: p.Year, Month: p.Month,
			DefaultScheduleTimes: defaultMinutes, RealisticScheduleTimes: defaultMinutes}
	}
	row.RealisticScheduleTimes -= minutes
	f.rows[p] = row
	return nil
}

func (f *fakeStatsRepo) ReplaceAttendance(ctx context.Context, s stats.MonthlyStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := stats.Period{EmployeeID: s.EmployeeID, Year: s.Year, Month: s.Month}
	row, ok := f.rows[p]
	if !ok {
		row = stats.MonthlyStats{EmployeeID: s.EmployeeID, Year: s.Year, Month: s.Month}
	}
	row.DateOnTime, row.DateLate, row.DateMissing = s.DateOnTime, s.DateLate, s.DateMissing
	row.AttendanceTotalTimes, row.AttendanceOvertime = s.AttendanceTotalTimes, s.AttendanceOvertime
	f.rows[p] = row
	return nil
}

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}
