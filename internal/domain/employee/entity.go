package employee

import (
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type DayOffStatus string

const (
	DayOffPending  DayOffStatus = "pending"
	DayOffAllowed  DayOffStatus = "allowed"
	DayOffRejected DayOffStatus = "rejected"
)

type Employee struct {
	ID     string
	Name   string
	Status Status
	// TotalTimePerMonth is the monthly scheduling budget in minutes
	TotalTimePerMonth int
	Departments       []Department
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Department is a membership of the employee in a department.
type Department struct {
	Name     string
	Position string
}

func (e Employee) IsActive() bool {
	return e.Status == StatusActive
}

// Department returns the membership for name.
func (e Employee) Department(name string) (Department, bool) {
	for _, d := range e.Departments {
		if d.Name == name {
			return d, true
		}
	}
	return Department{}, false
}

func (e Employee) DepartmentNames() []string {
	names := make([]string, 0, len(e.Departments))
	for _, d := range e.Departments {
		names = append(names, d.Name)
	}
	return names
}

type DayOff struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Status     DayOffStatus
	CreatedAt  time.Time
}

// Covers reports whether date falls in [StartDate, EndDate], compared by calendar day.
func (d DayOff) Covers(date time.Time) bool {
	day := date.Format(time.DateOnly)
	return day >= d.StartDate.Format(time.DateOnly) && day <= d.EndDate.Format(time.DateOnly)
}
