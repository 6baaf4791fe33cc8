package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/stats"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
)

type RecordStatus string

const (
	StatusChecked RecordStatus = "checked"
	StatusMissing RecordStatus = "missing"
)

// CheckoutMetadata is attached after check-out, e.g. by drivers.
type CheckoutMetadata struct {
	Odometer *string `json:"odometer,omitempty"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

// Record is the ledger entry for one (employee, date, shift code). Records are never deleted.
type Record struct {
	ID             string
	EmployeeID     string
	Date           time.Time
	ShiftCode      string
	DepartmentName string
	Position       string

	CheckIn        bool
	CheckInTime    *time.Time
	CheckInStatus  *timewindow.Status
	CheckOut       bool
	CheckOutTime   *time.Time
	CheckOutStatus *timewindow.Status

	TotalHour    int
	TotalMinutes int
	// Status is nil while the record is open
	Status *RecordStatus
	// AutoClosed marks a check-out forced by the sweep
	AutoClosed       bool
	CheckoutMetadata CheckoutMetadata

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOpen reports a check-in without check-out.
func (r Record) IsOpen() bool {
	return r.CheckIn && !r.CheckOut
}

func (r Record) IsMissing() bool {
	return r.Status != nil && *r.Status == StatusMissing
}

// Worked is the time between check-in and check-out, zero when either is absent.
func (r Record) Worked() time.Duration {
	if r.CheckInTime == nil || r.CheckOutTime == nil {
		return 0
	}
	d := r.CheckOutTime.Sub(*r.CheckInTime)
	if d < 0 {
		return 0
	}
	return d
}

// SetWorked stores d truncated to whole minutes as hours plus remaining minutes.
func (r *Record) SetWorked(d time.Duration) {
	minutes := int(d / time.Minute)
	r.TotalHour = minutes / 60
	r.TotalMinutes = minutes % 60
}

func (r Record) WorkedMinutes() int {
	return r.TotalHour*60 + r.TotalMinutes
}

// StatsDelta is what this record contributes to the monthly stats.
//
// Missing counts one missing day. A sweep-closed record counts one late day.
// Otherwise matching in/out statuses count one day of that status, mixed statuses half of each.
func (r Record) StatsDelta(shiftDuration time.Duration) stats.Delta {
	if r.IsMissing() {
		return stats.Delta{Missing: stats.One}
	}
	if !r.CheckOut {
		return stats.Delta{}
	}

	worked := r.WorkedMinutes()
	delta := stats.Delta{
		TotalTimes: worked,
		Overtime:   max(0, worked-int(shiftDuration/time.Minute)),
	}

	if r.AutoClosed {
		delta.Late = stats.One
		return delta
	}

	in, out := statusOrLate(r.CheckInStatus), statusOrLate(r.CheckOutStatus)
	switch {
	case in == out && in == timewindow.StatusOnTime:
		delta.OnTime = stats.One
	case in == out:
		delta.Late = stats.One
	default:
		delta.OnTime = stats.Half
		delta.Late = stats.Half
	}
	return delta
}

func statusOrLate(s *timewindow.Status) timewindow.Status {
	if s == nil {
		return timewindow.StatusLate
	}
	return *s
}
