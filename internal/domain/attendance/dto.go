package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/stats"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// SIGNAL DTOs
// ========================================

var signalKinds = []string{string(timewindow.CheckIn), string(timewindow.CheckOut)}

type SignalRequest struct {
	EmployeeID string          `json:"employee_id"`
	Kind       timewindow.Kind `json:"kind"`
}

func (r *SignalRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !validator.IsInSlice(string(r.Kind), signalKinds) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be check_in or check_out",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateCheckoutRequest struct {
	EmployeeID string  `json:"employee_id"`
	ShiftCode  string  `json:"shift_code"`
	Odometer   *string `json:"odometer"`
	PhotoURL   *string `json:"photo_url"`
}

func (r *UpdateCheckoutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.ShiftCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_code",
			Message: "shift_code is required",
		})
	}

	if r.Odometer == nil && r.PhotoURL == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "odometer",
			Message: "odometer or photo_url is required",
		})
	}

	if r.Odometer != nil && !validator.IsNumeric(*r.Odometer) {
		errs = append(errs, validator.ValidationError{
			Field:   "odometer",
			Message: "odometer must be numeric",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// QUERY DTOs
// ========================================

type MyAttendanceFilter struct {
	EmployeeID string
	// Month is YYYY-MM, empty means the current month
	Month string
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if f.Month != "" {
		if _, ok := validator.IsValidMonth(f.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID               string            `json:"id"`
	EmployeeID       string            `json:"employee_id"`
	Date             string            `json:"date"`
	ShiftCode        string            `json:"shift_code"`
	DepartmentName   string            `json:"department_name"`
	Position         string            `json:"position"`
	CheckIn          bool              `json:"check_in"`
	CheckInTime      *string           `json:"check_in_time"`
	CheckInStatus    *string           `json:"check_in_status"`
	CheckOut         bool              `json:"check_out"`
	CheckOutTime     *string           `json:"check_out_time"`
	CheckOutStatus   *string           `json:"check_out_status"`
	TotalHour        int               `json:"total_hour"`
	TotalMinutes     int               `json:"total_minutes"`
	Status           *string           `json:"status"`
	AutoClosed       bool              `json:"auto_closed"`
	CheckoutMetadata *CheckoutMetadata `json:"checkout_metadata,omitempty"`
}

func (r Record) ToResponse() AttendanceResponse {
	resp := AttendanceResponse{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		Date:           r.Date.Format(time.DateOnly),
		ShiftCode:      r.ShiftCode,
		DepartmentName: r.DepartmentName,
		Position:       r.Position,
		CheckIn:        r.CheckIn,
		CheckInTime:    timePtrToString(r.CheckInTime),
		CheckInStatus:  statusPtrToString(r.CheckInStatus),
		CheckOut:       r.CheckOut,
		CheckOutTime:   timePtrToString(r.CheckOutTime),
		CheckOutStatus: statusPtrToString(r.CheckOutStatus),
		TotalHour:      r.TotalHour,
		TotalMinutes:   r.TotalMinutes,
		AutoClosed:     r.AutoClosed,
	}
	if r.Status != nil {
		s := string(*r.Status)
		resp.Status = &s
	}
	if r.CheckoutMetadata.Odometer != nil || r.CheckoutMetadata.PhotoURL != nil {
		meta := r.CheckoutMetadata
		resp.CheckoutMetadata = &meta
	}
	return resp
}

type StatsResponse struct {
	EmployeeID             string          `json:"employee_id"`
	Month                  string          `json:"month"`
	DateOnTime             decimal.Decimal `json:"date_on_time"`
	DateLate               decimal.Decimal `json:"date_late"`
	DateMissing            decimal.Decimal `json:"date_missing"`
	DefaultScheduleTimes   int             `json:"default_schedule_times"`
	RealisticScheduleTimes int             `json:"realistic_schedule_times"`
	AttendanceTotalTimes   int             `json:"attendance_total_times"`
	AttendanceOvertime     int             `json:"attendance_overtime"`
}

func NewStatsResponse(s stats.MonthlyStats) StatsResponse {
	return StatsResponse{
		EmployeeID:             s.EmployeeID,
		Month:                  time.Date(s.Year, s.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
		DateOnTime:             s.DateOnTime,
		DateLate:               s.DateLate,
		DateMissing:            s.DateMissing,
		DefaultScheduleTimes:   s.DefaultScheduleTimes,
		RealisticScheduleTimes: s.RealisticScheduleTimes,
		AttendanceTotalTimes:   s.AttendanceTotalTimes,
		AttendanceOvertime:     s.AttendanceOvertime,
	}
}

type ListAttendanceResponse struct {
	EmployeeID string               `json:"employee_id"`
	Month      string               `json:"month"`
	Records    []AttendanceResponse `json:"records"`
	Stats      *StatsResponse       `json:"stats"`
}

// ========================================
// CORRECTION DTOs
// ========================================

type CorrectAttendanceRequest struct {
	ID           string  `json:"-"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
}

func (r *CorrectAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	} else if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.CheckInTime == nil && r.CheckOutTime == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in_time",
			Message: "check_in_time or check_out_time is required",
		})
	}

	if r.CheckInTime != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckInTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be RFC3339",
			})
		}
	}

	if r.CheckOutTime != nil {
		if _, ok := validator.IsValidDateTime(*r.CheckOutTime); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be RFC3339",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReconcileRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`
}

func (r *ReconcileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// SWEEP
// ========================================

// SweepResult counts what one sweep pass did.
type SweepResult struct {
	Employees   int `json:"employees"`
	Missing     int `json:"missing"`
	ForceClosed int `json:"force_closed"`
	Failed      int `json:"failed"`
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func statusPtrToString(s *timewindow.Status) *string {
	if s == nil {
		return nil
	}
	str := string(*s)
	return &str
}
