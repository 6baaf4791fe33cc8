package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the attendance ledger. Mutations are single-row and conditional
// so that request handling and the sweep can race without double counting.
type AttendanceRepository interface {
	// GetByShift returns nil when no record exists for the key
	GetByShift(ctx context.Context, employeeID string, date time.Time, shiftCode string) (*Record, error)

	// GetByID returns ErrAttendanceNotFound when missing
	GetByID(ctx context.Context, id string) (Record, error)

	// CreateCheckIn inserts an open record, ErrAlreadyCheckedIn when the key exists
	CreateCheckIn(ctx context.Context, record Record) (Record, error)

	// CreateMissing inserts a missing record and reports whether a row was inserted
	CreateMissing(ctx context.Context, record Record) (bool, error)

	// Close writes the check-out fields if the record is still open and reports whether it was
	Close(ctx context.Context, record Record) (bool, error)

	UpdateCheckoutMetadata(ctx context.Context, id string, metadata CheckoutMetadata) error

	// UpdateTimes rewrites the check-in/out fields, totals and status of a record
	UpdateTimes(ctx context.Context, record Record) error

	// ListByEmployeeAndRange returns records with from <= date <= to ordered by date
	ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
}
