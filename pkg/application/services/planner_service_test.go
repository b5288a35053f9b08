package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/capacity/pkg/infrastructure/testing"
)

func TestPlannerService_Plan_Workshop(t *testing.T) {
	ctx := context.Background()
	productRepo, materialRepo, recipeRepo := testhelpers.BuildWorkshopTestData()
	planner := NewPlannerService(productRepo, materialRepo, recipeRepo, nil)

	plan, err := planner.Plan(ctx)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	expected := []struct {
		id       entities.ProductID
		quantity string
		total    string
	}{
		{"TABLE", "3", "1350.00"},
		{"CHAIR", "2", "240.00"},
		{"HOOK", "112", "280.00"},
	}

	if len(plan.Items) != len(expected) {
		t.Fatalf("Expected %d plan items, got %d: %+v", len(expected), len(plan.Items), plan.Items)
	}
	for i, exp := range expected {
		item := plan.Items[i]
		if item.ProductID != exp.id {
			t.Errorf("Position %d: expected %s, got %s", i, exp.id, item.ProductID)
		}
		if !item.ProducibleQuantity.Equal(decimal.RequireFromString(exp.quantity)) {
			t.Errorf("%s: expected quantity %s, got %s", exp.id, exp.quantity, item.ProducibleQuantity)
		}
		if !item.TotalValue.Equal(decimal.RequireFromString(exp.total)) {
			t.Errorf("%s: expected total %s, got %s", exp.id, exp.total, item.TotalValue)
		}
	}

	if !plan.GrandTotalValue.Equal(decimal.RequireFromString("1870.00")) {
		t.Errorf("Expected grand total 1870.00, got %s", plan.GrandTotalValue)
	}
}

func TestPlannerService_Plan_DoesNotPersistConsumption(t *testing.T) {
	ctx := context.Background()
	productRepo, materialRepo, recipeRepo := testhelpers.BuildWorkshopTestData()
	planner := NewPlannerService(productRepo, materialRepo, recipeRepo, nil)

	first, err := planner.Plan(ctx)
	if err != nil {
		t.Fatalf("First plan failed: %v", err)
	}
	second, err := planner.Plan(ctx)
	if err != nil {
		t.Fatalf("Second plan failed: %v", err)
	}

	if !first.GrandTotalValue.Equal(second.GrandTotalValue) {
		t.Errorf("Expected identical plans, got %s and %s", first.GrandTotalValue, second.GrandTotalValue)
	}

	oak, err := materialRepo.GetMaterial(ctx, "OAK")
	if err != nil {
		t.Fatalf("Failed to get OAK: %v", err)
	}
	if !oak.StockOrZero().Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected stored OAK stock to remain 40, got %s", oak.StockOrZero())
	}
}

func TestPlannerService_Plan_Concurrent(t *testing.T) {
	ctx := context.Background()
	productRepo, materialRepo, recipeRepo := testhelpers.BuildWorkshopTestData()
	planner := NewPlannerService(productRepo, materialRepo, recipeRepo, nil)

	var wg sync.WaitGroup
	totals := make([]decimal.Decimal, 8)
	errs := make([]error, 8)
	for i := range totals {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			plan, err := planner.Plan(ctx)
			if err != nil {
				errs[i] = err
				return
			}
			totals[i] = plan.GrandTotalValue
		}(i)
	}
	wg.Wait()

	for i := range totals {
		if errs[i] != nil {
			t.Fatalf("Plan %d failed: %v", i, errs[i])
		}
		if !totals[i].Equal(decimal.RequireFromString("1870.00")) {
			t.Errorf("Plan %d: expected grand total 1870.00, got %s", i, totals[i])
		}
	}
}

func TestPlannerService_Plan_EmptyCatalog(t *testing.T) {
	planner := NewPlannerService(
		memory.NewProductRepository(0),
		memory.NewMaterialRepository(0),
		memory.NewRecipeRepository(0),
		nil,
	)

	plan, err := planner.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(plan.Items) != 0 {
		t.Errorf("Expected no items, got %d", len(plan.Items))
	}
	if !plan.GrandTotalValue.IsZero() {
		t.Errorf("Expected zero grand total, got %s", plan.GrandTotalValue)
	}
}

type failingRecipeRepository struct {
	*memory.RecipeRepository
}

func (failingRecipeRepository) GetRecipeLines(context.Context, entities.ProductID) ([]*entities.RecipeLine, error) {
	return nil, errors.New("connection reset")
}

func TestPlannerService_Plan_RepositoryError(t *testing.T) {
	productRepo, materialRepo, _ := testhelpers.BuildWorkshopTestData()
	planner := NewPlannerService(
		productRepo,
		materialRepo,
		failingRecipeRepository{memory.NewRecipeRepository(0)},
		nil,
	)

	plan, err := planner.Plan(context.Background())
	if err == nil {
		t.Fatal("Expected error from failing recipe repository")
	}
	if plan != nil {
		t.Errorf("Expected no partial plan, got %+v", plan)
	}
	if !strings.Contains(err.Error(), "failed to load recipe for") {
		t.Errorf("Expected wrapped recipe error, got %v", err)
	}
}

type nilEntryProductRepository struct {
	*memory.ProductRepository
}

func (r nilEntryProductRepository) GetProductsByPriority(ctx context.Context) ([]*entities.Product, error) {
	products, err := r.ProductRepository.GetProductsByPriority(ctx)
	if err != nil {
		return nil, err
	}
	return append([]*entities.Product{nil}, products...), nil
}

func TestPlannerService_Plan_SkipsNilProducts(t *testing.T) {
	productRepo, materialRepo, recipeRepo := testhelpers.BuildWorkshopTestData()
	planner := NewPlannerService(nilEntryProductRepository{productRepo}, materialRepo, recipeRepo, nil)

	plan, err := planner.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !plan.GrandTotalValue.Equal(decimal.RequireFromString("1870.00")) {
		t.Errorf("Expected grand total 1870.00, got %s", plan.GrandTotalValue)
	}
}
