package shift

import "context"

// ShiftRepository is the read side of the shift catalog.
type ShiftRepository interface {
	// GetByCode returns ErrShiftNotFound when the code is unknown
	GetByCode(ctx context.Context, code string) (Shift, error)

	// GetByCodes returns the known shifts keyed by code, unknown codes are absent
	GetByCodes(ctx context.Context, codes []string) (map[string]Shift, error)
}
