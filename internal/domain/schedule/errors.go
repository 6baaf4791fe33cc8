package schedule

import "errors"

var (
	// Per-date assignment errors
	ErrDayOffConflict    = errors.New("date falls within an allowed day off")
	ErrDuplicateShift    = errors.New("shift is already assigned on this date in this department")
	ErrShiftConflict     = errors.New("shift overlaps another shift on this date")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)
