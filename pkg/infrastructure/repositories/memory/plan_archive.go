package memory

import (
	"context"
	"sync"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/domain/repositories"
)

// PlanArchive keeps archived plan snapshots in memory
type PlanArchive struct {
	mu        sync.Mutex
	snapshots []entities.PlanSnapshot
}

// NewPlanArchive creates an empty in-memory plan archive
func NewPlanArchive() *PlanArchive {
	return &PlanArchive{}
}

// Verify interface compliance
var _ repositories.PlanArchive = (*PlanArchive)(nil)

// SavePlan appends a snapshot
func (a *PlanArchive) SavePlan(_ context.Context, snapshot entities.PlanSnapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snapshots = append(a.snapshots, snapshot)
	return nil
}

// Snapshots returns the archived snapshots in save order
func (a *PlanArchive) Snapshots() []entities.PlanSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]entities.PlanSnapshot, len(a.snapshots))
	copy(out, a.snapshots)
	return out
}
