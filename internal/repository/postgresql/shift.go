package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/shift"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const shiftColumns = `code, name, category, time_slot, created_at, updated_at`

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

// GetByCode implements shift.ShiftRepository.
func (s *shiftRepository) GetByCode(ctx context.Context, code string) (shift.Shift, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE code = $1`

	sh, err := scanShift(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by code: %w", err)
	}

	return sh, nil
}

// GetByCodes implements shift.ShiftRepository.
func (s *shiftRepository) GetByCodes(ctx context.Context, codes []string) (map[string]shift.Shift, error) {
	result := make(map[string]shift.Shift, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, s.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE code = ANY($1)`

	rows, err := q.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		result[sh.Code] = sh
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var (
		sh       shift.Shift
		timeSlot []byte
	)
	if err := row.Scan(&sh.Code, &sh.Name, &sh.Category, &timeSlot, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
		return shift.Shift{}, err
	}
	if err := json.Unmarshal(timeSlot, &sh.TimeSlot); err != nil {
		return shift.Shift{}, fmt.Errorf("decode time_slot of shift %s: %w", sh.Code, err)
	}
	if err := sh.TimeSlot.Validate(); err != nil {
		return shift.Shift{}, fmt.Errorf("%w: %s: %v", shift.ErrInvalidShift, sh.Code, err)
	}
	return sh, nil
}
