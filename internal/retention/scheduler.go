package retention

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of daily maintenance.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// MidnightRunner runs its jobs once at startup, then at every UTC midnight.
type MidnightRunner struct {
	Jobs   []Job
	Logger *zap.Logger

	now func() time.Time
}

func NewMidnightRunner(logger *zap.Logger, jobs ...Job) *MidnightRunner {
	return &MidnightRunner{Jobs: jobs, Logger: logger, now: time.Now}
}

// Start schedules the jobs in a background goroutine until ctx is done.
func (m *MidnightRunner) Start(ctx context.Context) {
	go func() {
		// Run immediately once at startup
		m.RunOnce(ctx)

		for {
			// Wait until next UTC midnight
			timer := time.NewTimer(time.Until(NextMidnight(m.now())))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			m.RunOnce(ctx)
		}
	}()
}

// RunOnce runs every job in order. A failing job is logged and does not stop
// the others.
func (m *MidnightRunner) RunOnce(ctx context.Context) {
	for _, job := range m.Jobs {
		if ctx.Err() != nil {
			return
		}
		start := m.now()
		if err := job.Run(ctx); err != nil {
			m.Logger.Error("maintenance job failed", zap.String("job", job.Name), zap.Error(err))
			continue
		}
		m.Logger.Info("maintenance job done",
			zap.String("job", job.Name),
			zap.Duration("took", m.now().Sub(start)))
	}
}

// NextMidnight returns the first UTC midnight strictly after now.
func NextMidnight(now time.Time) time.Time {
	return now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
}
