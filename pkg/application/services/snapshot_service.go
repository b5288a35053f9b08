package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/domain/repositories"
)

// Planner produces a production plan from the current catalog
type Planner interface {
	Plan(ctx context.Context) (*entities.ProductionPlan, error)
}

// SnapshotService computes a plan and archives it under a fresh run id
type SnapshotService struct {
	planner Planner
	archive repositories.PlanArchive
	now     func() time.Time
	logger  *zap.Logger
}

// NewSnapshotService creates a snapshot service
func NewSnapshotService(planner Planner, archive repositories.PlanArchive, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{
		planner: planner,
		archive: archive,
		now:     time.Now,
		logger:  logger,
	}
}

// Capture plans once and saves the result. trigger records what asked for the run.
func (s *SnapshotService) Capture(ctx context.Context, trigger string) (*entities.PlanSnapshot, error) {
	plan, err := s.planner.Plan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to plan snapshot: %w", err)
	}

	snapshot := entities.PlanSnapshot{
		RunID:       uuid.NewString(),
		GeneratedAt: s.now(),
		Trigger:     trigger,
		Plan:        *plan,
	}

	if err := s.archive.SavePlan(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to archive snapshot %s: %w", snapshot.RunID, err)
	}

	s.logger.Info("plan snapshot archived",
		zap.String("run_id", snapshot.RunID),
		zap.String("trigger", trigger),
		zap.String("grand_total_value", plan.GrandTotalValue.String()))

	return &snapshot, nil
}
