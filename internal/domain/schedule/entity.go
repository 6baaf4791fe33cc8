package schedule

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
)

// ShiftDesign is one shift placed on an employee's department schedule for a date.
// (EmployeeID, DepartmentName, Date, ShiftCode) is unique.
type ShiftDesign struct {
	ID             string
	EmployeeID     string
	DepartmentName string
	Date           time.Time
	Position       string
	ShiftCode      string
	TimeSlot       timewindow.Window
	ShiftCategory  string
	// TimeLeft is the realistic monthly budget in minutes left after this assignment
	TimeLeft  int
	CreatedAt time.Time
}

func (d ShiftDesign) DateString() string {
	return d.Date.Format(time.DateOnly)
}

func (d ShiftDesign) ToResponse() ShiftDesignResponse {
	return ShiftDesignResponse{
		DepartmentName: d.DepartmentName,
		Position:       d.Position,
		ShiftCode:      d.ShiftCode,
		TimeSlot:       d.TimeSlot,
		ShiftCategory:  d.ShiftCategory,
		TimeLeft:       d.TimeLeft,
	}
}

// GroupByDepartment builds the per-department, per-date projection, keeping input order.
func GroupByDepartment(designs []ShiftDesign) []DepartmentSchedule {
	var result []DepartmentSchedule
	deptIdx := make(map[string]int)
	dayIdx := make(map[string]int)

	for _, d := range designs {
		i, ok := deptIdx[d.DepartmentName]
		if !ok {
			i = len(result)
			deptIdx[d.DepartmentName] = i
			result = append(result, DepartmentSchedule{DepartmentName: d.DepartmentName})
		}
		key := d.DepartmentName + "|" + d.DateString()
		j, ok := dayIdx[key]
		if !ok {
			j = len(result[i].Schedules)
			dayIdx[key] = j
			result[i].Schedules = append(result[i].Schedules, DaySchedule{Date: d.DateString()})
		}
		result[i].Schedules[j].ShiftDesign = append(result[i].Schedules[j].ShiftDesign, d.ToResponse())
	}
	return result
}
