package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/stats"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var period = stats.Period{EmployeeID: "emp-1", Year: 2024, Month: time.March}

func TestMonthlyStatsRepository_Get(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewMonthlyStatsRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM monthly_stats`)).
		WithArgs("emp-1", 2024, 3).
		WillReturnRows(pgxmock.NewRows([]string{
			"employee_id", "year", "month", "date_on_time", "date_late", "date_missing",
			"default_schedule_times", "realistic_schedule_times",
			"attendance_total_times", "attendance_overtime", "created_at", "updated_at",
		}).AddRow("emp-1", 2024, 3, decimal.NewFromFloat(3.5), decimal.NewFromFloat(0.5), decimal.NewFromInt(1),
			9600, 8640, 1960, 10, now, now))

	s, err := repo.Get(context.Background(), period)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, time.March, s.Month)
	assert.Equal(t, "3.5", s.DateOnTime.String())
	assert.Equal(t, 8640, s.RealisticScheduleTimes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyStatsRepository_Get_Absent(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewMonthlyStatsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM monthly_stats`)).
		WithArgs("emp-1", 2024, 3).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id"}))

	s, err := repo.Get(context.Background(), period)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMonthlyStatsRepository_Apply(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewMonthlyStatsRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`date_on_time = monthly_stats.date_on_time + EXCLUDED.date_on_time`)).
		WithArgs("emp-1", 2024, 3, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), 490, 10).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Apply(context.Background(), period, stats.Delta{OnTime: stats.Half, Late: stats.Half, TotalTimes: 490, Overtime: 10})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlyStatsRepository_ApplyExisting_MissingRow(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewMonthlyStatsRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE monthly_stats`)).
		WithArgs("emp-1", 2024, 3, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), -490, 0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	applied, err := repo.ApplyExisting(context.Background(), period, stats.Delta{TotalTimes: -490})
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestMonthlyStatsRepository_ReserveBudget(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewMonthlyStatsRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`realistic_schedule_times = monthly_stats.realistic_schedule_times - $6`)).
		WithArgs("emp-1", 2024, 3, 9600, 9360, 240).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.ReserveBudget(context.Background(), period, 9600, 240))
	assert.NoError(t, mock.ExpectationsWereMet())
}
