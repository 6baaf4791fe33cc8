package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/stats"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type monthlyStatsRepository struct {
	db *database.DB
}

func NewMonthlyStatsRepository(db *database.DB) stats.StatsRepository {
	return &monthlyStatsRepository{db: db}
}

// Get implements stats.StatsRepository.
func (m *monthlyStatsRepository) Get(ctx context.Context, p stats.Period) (*stats.MonthlyStats, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		SELECT employee_id, year, month, date_on_time, date_late, date_missing,
			   default_schedule_times, realistic_schedule_times,
			   attendance_total_times, attendance_overtime,
			   created_at, updated_at
		FROM monthly_stats
		WHERE employee_id = $1
		  AND year = $2
		  AND month = $3
	`

	var s stats.MonthlyStats
	var month int
	err := q.QueryRow(ctx, query, p.EmployeeID, p.Year, int(p.Month)).Scan(
		&s.EmployeeID, &s.Year, &month, &s.DateOnTime, &s.DateLate, &s.DateMissing,
		&s.DefaultScheduleTimes, &s.RealisticScheduleTimes,
		&s.AttendanceTotalTimes, &s.AttendanceOvertime,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get monthly stats: %w", err)
	}
	s.Month = time.Month(month)

	return &s, nil
}

// Apply implements stats.StatsRepository.
func (m *monthlyStatsRepository) Apply(ctx context.Context, p stats.Period, delta stats.Delta) error {
	q := GetQuerier(ctx, m.db)

	query := `
		INSERT INTO monthly_stats (
			employee_id, year, month, date_on_time, date_late, date_missing,
			attendance_total_times, attendance_overtime
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (employee_id, year, month) DO UPDATE
		SET date_on_time = monthly_stats.date_on_time + EXCLUDED.date_on_time,
			date_late = monthly_stats.date_late + EXCLUDED.date_late,
			date_missing = monthly_stats.date_missing + EXCLUDED.date_missing,
			attendance_total_times = monthly_stats.attendance_total_times + EXCLUDED.attendance_total_times,
			attendance_overtime = monthly_stats.attendance_overtime + EXCLUDED.attendance_overtime,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		p.EmployeeID, p.Year, int(p.Month),
		delta.OnTime, delta.Late, delta.Missing,
		delta.TotalTimes, delta.Overtime,
	)
	if err != nil {
		return fmt.Errorf("failed to apply monthly stats delta: %w", err)
	}

	return nil
}

// ApplyExisting implements stats.StatsRepository.
func (m *monthlyStatsRepository) ApplyExisting(ctx context.Context, p stats.Period, delta stats.Delta) (bool, error) {
	q := GetQuerier(ctx, m.db)

	query := `
		UPDATE monthly_stats
		SET date_on_time = date_on_time + $4,
			date_late = date_late + $5,
			date_missing = date_missing + $6,
			attendance_total_times = attendance_total_times + $7,
			attendance_overtime = attendance_overtime + $8,
			updated_at = NOW()
		WHERE employee_id = $1
		  AND year = $2
		  AND month = $3
	`

	tag, err := q.Exec(ctx, query,
		p.EmployeeID, p.Year, int(p.Month),
		delta.OnTime, delta.Late, delta.Missing,
		delta.TotalTimes, delta.Overtime,
	)
	if err != nil {
		return false, fmt.Errorf("failed to apply monthly stats delta: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ReserveBudget implements stats.StatsRepository.
func (m *monthlyStatsRepository) ReserveBudget(ctx context.Context, p stats.Period, defaultMinutes, minutes int) error {
	q := GetQuerier(ctx, m.db)

	query := `
		INSERT INTO monthly_stats (
			employee_id, year, month, default_schedule_times, realistic_schedule_times
		) VALUES (
			$1, $2, $3, $4, $5
		)
		ON CONFLICT (employee_id, year, month) DO UPDATE
		SET realistic_schedule_times = monthly_stats.realistic_schedule_times - $6,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		p.EmployeeID, p.Year, int(p.Month),
		defaultMinutes, defaultMinutes-minutes, minutes,
	)
	if err != nil {
		return fmt.Errorf("failed to reserve schedule budget: %w", err)
	}

	return nil
}

// ReplaceAttendance implements stats.StatsRepository.
func (m *monthlyStatsRepository) ReplaceAttendance(ctx context.Context, s stats.MonthlyStats) error {
	q := GetQuerier(ctx, m.db)

	query := `
		INSERT INTO monthly_stats (
			employee_id, year, month, date_on_time, date_late, date_missing,
			attendance_total_times, attendance_overtime
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (employee_id, year, month) DO UPDATE
		SET date_on_time = EXCLUDED.date_on_time,
			date_late = EXCLUDED.date_late,
			date_missing = EXCLUDED.date_missing,
			attendance_total_times = EXCLUDED.attendance_total_times,
			attendance_overtime = EXCLUDED.attendance_overtime,
			updated_at = NOW()
	`

	_, err := q.Exec(ctx, query,
		s.EmployeeID, s.Year, int(s.Month),
		s.DateOnTime, s.DateLate, s.DateMissing,
		s.AttendanceTotalTimes, s.AttendanceOvertime,
	)
	if err != nil {
		return fmt.Errorf("failed to replace monthly stats: %w", err)
	}

	return nil
}
