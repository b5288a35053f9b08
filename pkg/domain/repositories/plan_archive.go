package repositories

import (
	"context"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

// PlanArchive stores computed production plans for later reporting.
// Archiving a plan never changes material stock.
type PlanArchive interface {
	SavePlan(ctx context.Context, snapshot entities.PlanSnapshot) error
}
