package timewindow

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultGrace is the tolerance applied before a shift starts and after it ends.
const DefaultGrace = 30 * time.Minute

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day, expected HH:MM")
	ErrInvalidWindow    = errors.New("invalid shift window")
)

// Kind is the direction of an attendance signal.
type Kind string

const (
	CheckIn  Kind = "check_in"
	CheckOut Kind = "check_out"
)

type Status string

const (
	StatusOnTime Status = "on_time"
	StatusLate   Status = "late"
)

type Reason string

const (
	ReasonTooEarly Reason = "too_early"
	ReasonTooLate  Reason = "too_late"
)

// Minute is a minute of the day, 0 to 1439.
type Minute int

// ParseMinute parses "HH:MM".
func ParseMinute(s string) (Minute, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return Minute(t.Hour()*60 + t.Minute()), nil
}

func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// On anchors m on the calendar day of day, in day's location.
func (m Minute) On(day time.Time) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, int(m)/60, int(m)%60, 0, 0, day.Location())
}

func (m Minute) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Minute) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMinute(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Slot is one contiguous sub-interval of a shift.
type Slot struct {
	Start Minute `json:"start_time"`
	End   Minute `json:"end_time"`
}

func (s Slot) Duration() time.Duration {
	return time.Duration(s.End-s.Start) * time.Minute
}

// Window is the ordered list of slots of a shift. A split shift has two.
type Window []Slot

// Validate checks the window has one or two ordered, non-overlapping, same-day slots.
func (w Window) Validate() error {
	if len(w) == 0 || len(w) > 2 {
		return fmt.Errorf("%w: expected 1 or 2 slots, got %d", ErrInvalidWindow, len(w))
	}
	for i, s := range w {
		if s.Start < 0 || s.End >= 24*60 || s.Start >= s.End {
			return fmt.Errorf("%w: slot %s-%s", ErrInvalidWindow, s.Start, s.End)
		}
		if i > 0 && w[i-1].End > s.Start {
			return fmt.Errorf("%w: slots overlap", ErrInvalidWindow)
		}
	}
	return nil
}

// Start is the start of the first slot.
func (w Window) Start() Minute {
	return w[0].Start
}

// End is the end of the last slot.
func (w Window) End() Minute {
	return w[len(w)-1].End
}

// Duration is the scheduled working time, breaks excluded.
func (w Window) Duration() time.Duration {
	var total time.Duration
	for _, s := range w {
		total += s.Duration()
	}
	return total
}

// Bounds returns the effective window anchored on day.
func (w Window) Bounds(day time.Time) (start, end time.Time) {
	return w.Start().On(day), w.End().On(day)
}

// Outcome is the classification of a signal against a window.
type Outcome struct {
	Accepted bool
	Status   Status
	Reason   Reason
}

// ForceClose reports a check-out past the grace period. Requests reject it,
// the sweep closes the record as late.
func (o Outcome) ForceClose() bool {
	return !o.Accepted && o.Reason == ReasonTooLate && o.Status == StatusLate
}

type Resolver struct {
	grace time.Duration
}

func NewResolver(grace time.Duration) Resolver {
	return Resolver{grace: grace}
}

func (r Resolver) Grace() time.Duration {
	return r.grace
}

// Classify decides how a signal at now counts against w on now's calendar day.
//
// Check-in: on time within grace before start, late until end, rejected otherwise.
// Check-out: on time in (end, end+grace], too early up to end, too late after.
func (r Resolver) Classify(now time.Time, w Window, kind Kind) Outcome {
	start, end := w.Bounds(now)

	if kind == CheckIn {
		switch {
		case now.Before(start.Add(-r.grace)):
			return Outcome{Reason: ReasonTooEarly}
		case now.Before(start):
			return Outcome{Accepted: true, Status: StatusOnTime}
		case now.Before(end):
			return Outcome{Accepted: true, Status: StatusLate}
		default:
			return Outcome{Reason: ReasonTooLate}
		}
	}

	switch {
	case !now.After(end):
		return Outcome{Reason: ReasonTooEarly}
	case !now.After(end.Add(r.grace)):
		return Outcome{Accepted: true, Status: StatusOnTime}
	default:
		return Outcome{Status: StatusLate, Reason: ReasonTooLate}
	}
}

// Elapsed reports whether the window scheduled on day, grace included, is over at now.
func (r Resolver) Elapsed(now, day time.Time, w Window) bool {
	_, end := w.Bounds(day)
	return now.After(end.Add(r.grace))
}

// Overlaps reports whether a and b are closer than gap to each other.
// Touching windows conflict when gap is positive.
func Overlaps(a, b Window, gap time.Duration) bool {
	g := Minute(gap / time.Minute)
	return a.Start() < b.End()+g && b.Start() < a.End()+g
}

// Day truncates t to midnight in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayIn re-anchors the calendar date of d at midnight in loc.
// DATE columns are read back as UTC midnight.
func DayIn(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}

// MonthRange returns the first and last day of the month containing t.
func MonthRange(t time.Time) (first, last time.Time) {
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last = first.AddDate(0, 1, -1)
	return first, last
}
