package shift

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
)

// Shift is a catalog entry. The catalog is read-only for this service.
type Shift struct {
	Code      string
	Name      string
	Category  string
	TimeSlot  timewindow.Window
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration is the scheduled working time of the shift
func (s Shift) Duration() time.Duration {
	return s.TimeSlot.Duration()
}
