package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

const SweepJobName = "sweep_elapsed_shifts"

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	interval          time.Duration
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceService: attendanceService,
		interval:          interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob(Job{
		Name:     SweepJobName,
		Interval: j.interval,
		// A run must finish before the next tick is due
		Timeout: j.interval,
		Fn:      j.SweepElapsedShifts,
	})
}

// SweepElapsedShifts settles every shift whose window and grace are over.
func (j *AttendanceJobs) SweepElapsedShifts(ctx context.Context) error {
	slog.Info("Cron: Starting sweep of elapsed shifts")

	result, err := j.attendanceService.Sweep(ctx)
	if err != nil {
		return err
	}

	if result.Failed > 0 {
		slog.Warn("Cron: Sweep left shifts unsettled, they are retried next run", "failed", result.Failed)
	}
	return nil
}
