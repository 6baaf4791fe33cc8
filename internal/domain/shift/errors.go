package shift

import "errors"

var (
	ErrShiftNotFound = errors.New("shift not found")
	ErrInvalidShift  = errors.New("shift has an invalid time slot")
)
