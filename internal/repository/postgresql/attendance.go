package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timewindow"
	"github.com/jackc/pgx/v5"
)

const recordColumns = `id, employee_id, date, shift_code, department_name, position,
		check_in, check_in_time, check_in_status,
		check_out, check_out_time, check_out_status,
		total_hour, total_minutes, status, auto_closed, checkout_metadata,
		created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// GetByShift implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByShift(ctx context.Context, employeeID string, date time.Time, shiftCode string) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND date = $2
		  AND shift_code = $3
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date, shiftCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No record for this shift yet
		}
		return nil, fmt.Errorf("failed to get attendance by shift: %w", err)
	}

	return &rec, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + recordColumns + ` FROM attendance_records WHERE id = $1`

	rec, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return rec, nil
}

// CreateCheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateCheckIn(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, shift_code, department_name, position,
			check_in, check_in_time, check_in_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, TRUE, $7, $8
		)
		ON CONFLICT (employee_id, date, shift_code) DO NOTHING
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.ShiftCode,
		record.DepartmentName,
		record.Position,
		record.CheckInTime,
		statusParam(record.CheckInStatus),
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	record.CheckIn = true
	return record, nil
}

// CreateMissing implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateMissing(ctx context.Context, record attendance.Record) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, shift_code, department_name, position, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (employee_id, date, shift_code) DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.ShiftCode,
		record.DepartmentName,
		record.Position,
		string(attendance.StatusMissing),
	)
	if err != nil {
		return false, fmt.Errorf("failed to create missing attendance: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Close implements attendance.AttendanceRepository.
func (a *attendanceRepository) Close(ctx context.Context, record attendance.Record) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out = TRUE,
			check_out_time = $2,
			check_out_status = $3,
			total_hour = $4,
			total_minutes = $5,
			status = $6,
			auto_closed = $7,
			updated_at = NOW()
		WHERE id = $1
		  AND check_in = TRUE
		  AND check_out = FALSE
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.CheckOutTime,
		statusParam(record.CheckOutStatus),
		record.TotalHour,
		record.TotalMinutes,
		string(attendance.StatusChecked),
		record.AutoClosed,
	)
	if err != nil {
		return false, fmt.Errorf("failed to close attendance: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// UpdateCheckoutMetadata implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateCheckoutMetadata(ctx context.Context, id string, metadata attendance.CheckoutMetadata) error {
	q := GetQuerier(ctx, a.db)

	payload, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode checkout metadata: %w", err)
	}

	query := `
		UPDATE attendance_records
		SET checkout_metadata = $2,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, payload)
	if err != nil {
		return fmt.Errorf("failed to update checkout metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// UpdateTimes implements attendance.AttendanceRepository.
func (a *attendanceRepository) UpdateTimes(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_in = $2,
			check_in_time = $3,
			check_in_status = $4,
			check_out = $5,
			check_out_time = $6,
			check_out_status = $7,
			total_hour = $8,
			total_minutes = $9,
			status = $10,
			auto_closed = $11,
			updated_at = NOW()
		WHERE id = $1
	`

	var status *string
	if record.Status != nil {
		s := string(*record.Status)
		status = &s
	}

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.CheckIn,
		record.CheckInTime,
		statusParam(record.CheckInStatus),
		record.CheckOut,
		record.CheckOutTime,
		statusParam(record.CheckOutStatus),
		record.TotalHour,
		record.TotalMinutes,
		status,
		record.AutoClosed,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance times: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListByEmployeeAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY date, shift_code
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return records, nil
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var (
		rec                         attendance.Record
		checkInStatus, checkOutStat *string
		status                      *string
		metadata                    []byte
	)

	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ShiftCode, &rec.DepartmentName, &rec.Position,
		&rec.CheckIn, &rec.CheckInTime, &checkInStatus,
		&rec.CheckOut, &rec.CheckOutTime, &checkOutStat,
		&rec.TotalHour, &rec.TotalMinutes, &status, &rec.AutoClosed, &metadata,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}

	rec.CheckInStatus = toStatus(checkInStatus)
	rec.CheckOutStatus = toStatus(checkOutStat)
	if status != nil {
		s := attendance.RecordStatus(*status)
		rec.Status = &s
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &rec.CheckoutMetadata); err != nil {
			return attendance.Record{}, fmt.Errorf("decode checkout_metadata of %s: %w", rec.ID, err)
		}
	}

	return rec, nil
}

func toStatus(s *string) *timewindow.Status {
	if s == nil {
		return nil
	}
	st := timewindow.Status(*s)
	return &st
}

func statusParam(s *timewindow.Status) *string {
	if s == nil {
		return nil
	}
	str := string(*s)
	return &str
}
