package attendance

import "errors"

// Attendance domain errors
var (
	// Signal errors
	ErrNoScheduleToday   = errors.New("no schedule found for today")
	ErrNoMatchingShift   = errors.New("no shift matches the current time")
	ErrTooEarly          = errors.New("too early for this shift")
	ErrTooLate           = errors.New("too late for this shift")
	ErrAlreadyCheckedIn  = errors.New("you have already checked in for this shift")
	ErrCheckInRequired   = errors.New("you have not checked in for this shift")
	ErrAlreadyCheckedOut = errors.New("you have already checked out for this shift")
	ErrCheckOutRequired  = errors.New("you have not checked out for this shift")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidCorrection  = errors.New("check-out time must be after check-in time")
)
