package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/capacity/pkg/application/services/allocation"
	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/domain/repositories"
)

// PlannerService computes production plans from the catalog's current stock snapshot
type PlannerService struct {
	products  repositories.ProductRepository
	materials repositories.MaterialRepository
	recipes   repositories.RecipeRepository
	engine    *allocation.Engine
	logger    *zap.Logger
}

// NewPlannerService creates a planner backed by the given catalog repositories
func NewPlannerService(
	products repositories.ProductRepository,
	materials repositories.MaterialRepository,
	recipes repositories.RecipeRepository,
	logger *zap.Logger,
) *PlannerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		products:  products,
		materials: materials,
		recipes:   recipes,
		engine:    allocation.NewEngine(logger.Named("engine")),
		logger:    logger,
	}
}

// Plan runs one allocation pass over a fresh stock ledger.
// Everything the engine needs is loaded up front, so the pass itself performs no I/O.
// Stock consumed by the pass is never written back to the material repository.
func (s *PlannerService) Plan(ctx context.Context) (*entities.ProductionPlan, error) {
	start := time.Now()

	materials, err := s.materials.GetAllMaterials(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load material snapshot: %w", err)
	}

	products, err := s.products.GetProductsByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	book := make(allocation.RecipeBook, len(products))
	for _, product := range products {
		if product == nil {
			continue
		}
		lines, err := s.recipes.GetRecipeLines(ctx, product.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipe for %s: %w", product.ID, err)
		}
		book[product.ID] = lines
	}

	ledger := allocation.NewLedger(materials)
	plan := s.engine.Generate(products, ledger, book)

	s.logger.Info("production plan generated",
		zap.Int("products", len(products)),
		zap.Int("materials", len(materials)),
		zap.Int("producible_products", len(plan.Items)),
		zap.String("grand_total_value", plan.GrandTotalValue.String()),
		zap.Duration("duration", time.Since(start)))

	return &plan, nil
}
