package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	One  = decimal.NewFromInt(1)
	Half = decimal.NewFromFloat(0.5)
)

// MonthlyStats holds the running counters of one employee for one month.
// Outcome counters move in steps of 0.5, time counters are minutes.
type MonthlyStats struct {
	EmployeeID             string
	Year                   int
	Month                  time.Month
	DateOnTime             decimal.Decimal
	DateLate               decimal.Decimal
	DateMissing            decimal.Decimal
	DefaultScheduleTimes   int
	RealisticScheduleTimes int
	AttendanceTotalTimes   int
	AttendanceOvertime     int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Period identifies a stats row.
type Period struct {
	EmployeeID string
	Year       int
	Month      time.Month
}

func PeriodOf(employeeID string, t time.Time) Period {
	return Period{EmployeeID: employeeID, Year: t.Year(), Month: t.Month()}
}

// Delta is an increment applied atomically to a stats row.
type Delta struct {
	OnTime     decimal.Decimal
	Late       decimal.Decimal
	Missing    decimal.Decimal
	TotalTimes int
	Overtime   int
}

func (d Delta) Neg() Delta {
	return Delta{
		OnTime:     d.OnTime.Neg(),
		Late:       d.Late.Neg(),
		Missing:    d.Missing.Neg(),
		TotalTimes: -d.TotalTimes,
		Overtime:   -d.Overtime,
	}
}

func (d Delta) Add(o Delta) Delta {
	return Delta{
		OnTime:     d.OnTime.Add(o.OnTime),
		Late:       d.Late.Add(o.Late),
		Missing:    d.Missing.Add(o.Missing),
		TotalTimes: d.TotalTimes + o.TotalTimes,
		Overtime:   d.Overtime + o.Overtime,
	}
}

func (d Delta) IsZero() bool {
	return d.OnTime.IsZero() && d.Late.IsZero() && d.Missing.IsZero() && d.TotalTimes == 0 && d.Overtime == 0
}
