package schedule

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

const maxAssignDates = 62

// ========================================
// ASSIGNMENT DTOs
// ========================================

type AssignShiftsRequest struct {
	EmployeeID     string   `json:"employee_id"`
	DepartmentName string   `json:"department_name"`
	ShiftCode      string   `json:"shift_code"`
	Position       string   `json:"position"`
	Dates          []string `json:"dates"`
}

// Validate checks the request shape. Date formats are reported per date by the scheduler.
func (r *AssignShiftsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.DepartmentName) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_name",
			Message: "department_name is required",
		})
	}

	if validator.IsEmpty(r.ShiftCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "shift_code",
			Message: "shift_code is required",
		})
	}

	if len(r.Dates) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "dates",
			Message: "at least one date is required",
		})
	} else if len(r.Dates) > maxAssignDates {
		errs = append(errs, validator.ValidationError{
			Field:   "dates",
			Message: "at most " + validator.Itoa(maxAssignDates) + " dates per request",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DateError struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

type AssignShiftsResponse struct {
	EmployeeID      string        `json:"employee_id"`
	DepartmentName  string        `json:"department_name"`
	ShiftCode       string        `json:"shift_code"`
	AssignedDates   []string      `json:"assigned_dates"`
	UpdatedSchedule []DaySchedule `json:"updated_schedule"`
	ErrorDates      []DateError   `json:"error_dates"`
}

// ========================================
// PROJECTION DTOs
// ========================================

type ScheduleFilter struct {
	EmployeeID string
	// Month is YYYY-MM, empty means the current month
	Month string
}

func (f *ScheduleFilter) Validate() error {
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

type ShiftDesignResponse struct {
	DepartmentName string            `json:"department_name"`
	Position       string            `json:"position"`
	ShiftCode      string            `json:"shift_code"`
	TimeSlot       timewindow.Window `json:"time_slot"`
	ShiftCategory  string            `json:"shift_category"`
	TimeLeft       int               `json:"time_left"`
}

type DaySchedule struct {
	Date        string                `json:"date"`
	ShiftDesign []ShiftDesignResponse `json:"shift_design"`
}

type DepartmentSchedule struct {
	DepartmentName string        `json:"department_name"`
	Schedules      []DaySchedule `json:"schedules"`
}

type ScheduleResponse struct {
	EmployeeID  string               `json:"employee_id"`
	Month       string               `json:"month"`
	Departments []DepartmentSchedule `json:"departments"`
}
