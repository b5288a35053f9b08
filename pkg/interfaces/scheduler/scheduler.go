package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

// TriggerCron marks snapshots captured by the scheduler.
const TriggerCron = "cron"

const captureTimeout = 2 * time.Minute

// SnapshotCapturer plans once and archives the result.
type SnapshotCapturer interface {
	Capture(ctx context.Context, trigger string) (*entities.PlanSnapshot, error)
}

// Scheduler manages scheduled plan snapshots.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	capturer SnapshotCapturer
	timeout  time.Duration
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance for a standard 5-field cron schedule.
func NewScheduler(schedule string, capturer SnapshotCapturer, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		capturer: capturer,
		timeout:  captureTimeout,
		logger:   logger,
	}
}

// Start registers the snapshot job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.captureSnapshot); err != nil {
		return fmt.Errorf("failed to schedule plan snapshot %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running snapshot to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) captureSnapshot() {
	s.logger.Info("capturing scheduled plan snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	snapshot, err := s.capturer.Capture(ctx, TriggerCron)
	if err != nil {
		s.logger.Error("failed to capture plan snapshot", zap.Error(err))
		return
	}

	s.logger.Info("scheduled plan snapshot captured",
		zap.String("run_id", snapshot.RunID),
		zap.Int("items", len(snapshot.Plan.Items)))
}
