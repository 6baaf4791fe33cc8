package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Signal classifies a check-in or check-out against today's shifts and records it
	Signal(ctx context.Context, req SignalRequest) (AttendanceResponse, error)

	// UpdateCheckout attaches metadata to a checked-out record of today
	UpdateCheckout(ctx context.Context, req UpdateCheckoutRequest) (AttendanceResponse, error)

	// GetMyAttendance retrieves one month of records with the month stats
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// CorrectAttendance updates times of a record (manager/admin) and moves its stats contribution
	CorrectAttendance(ctx context.Context, req CorrectAttendanceRequest) (AttendanceResponse, error)

	// Reconcile recomputes the month's attendance counters from the ledger
	Reconcile(ctx context.Context, req ReconcileRequest) (StatsResponse, error)

	// Sweep closes or marks missing every elapsed shift of today
	Sweep(ctx context.Context) (SweepResult, error)
}
