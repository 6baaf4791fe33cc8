package stats

import "context"

// StatsRepository mutates counters with single-row atomic increments.
type StatsRepository interface {
	// Get returns nil when the row does not exist yet
	Get(ctx context.Context, p Period) (*MonthlyStats, error)

	// Apply adds delta, creating the row when absent
	Apply(ctx context.Context, p Period, delta Delta) error

	// ApplyExisting adds delta only when the row exists and reports whether it did
	ApplyExisting(ctx context.Context, p Period, delta Delta) (bool, error)

	// ReserveBudget creates the row with default and realistic = default - minutes,
	// or decrements realistic when the row exists
	ReserveBudget(ctx context.Context, p Period, defaultMinutes, minutes int) error

	// ReplaceAttendance overwrites outcome and attendance time counters, keeping the budget
	ReplaceAttendance(ctx context.Context, s MonthlyStats) error
}
