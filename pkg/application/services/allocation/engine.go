package allocation

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

// RecipeProvider returns the recipe lines of a product in recipe order
type RecipeProvider interface {
	RecipeLines(productID entities.ProductID) []*entities.RecipeLine
}

// RecipeBook is an in-memory RecipeProvider keyed by product
type RecipeBook map[entities.ProductID][]*entities.RecipeLine

// RecipeLines implements RecipeProvider
func (b RecipeBook) RecipeLines(productID entities.ProductID) []*entities.RecipeLine {
	return b[productID]
}

// NewRecipeBook groups recipe lines by product, preserving their relative order
func NewRecipeBook(lines []*entities.RecipeLine) RecipeBook {
	book := make(RecipeBook)
	for _, line := range lines {
		if line == nil {
			continue
		}
		book[line.ProductID] = append(book[line.ProductID], line)
	}
	return book
}

// SkipReason explains why a product contributed nothing to a plan
type SkipReason int

const (
	NotSkipped SkipReason = iota
	EmptyRecipe
	InvalidRecipeLine
	InsufficientStock
)

// String method for SkipReason enum
func (r SkipReason) String() string {
	switch r {
	case NotSkipped:
		return "NotSkipped"
	case EmptyRecipe:
		return "EmptyRecipe"
	case InvalidRecipeLine:
		return "InvalidRecipeLine"
	case InsufficientStock:
		return "InsufficientStock"
	default:
		return "Unknown"
	}
}

// Engine performs greedy bottleneck allocation of shared stock across products
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a new allocation engine
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Generate allocates stock to products in the given order and returns the resulting plan.
// Products are never re-sorted: earlier products consume shared materials first.
// Malformed input never fails the pass; the affected product is simply left out.
func (e *Engine) Generate(
	products []*entities.Product,
	ledger *Ledger,
	recipes RecipeProvider,
) entities.ProductionPlan {
	plan := entities.ProductionPlan{
		Items:           make([]entities.ProductionPlanItem, 0, len(products)),
		GrandTotalValue: decimal.Zero,
	}

	for _, product := range products {
		if product == nil {
			continue
		}

		reqs, reason := requirements(recipes.RecipeLines(product.ID))
		quantity := decimal.Zero
		if reason == NotSkipped {
			quantity, reason = bottleneck(reqs, ledger)
		}
		if reason != NotSkipped {
			e.logger.Debug("product skipped",
				zap.String("product_id", string(product.ID)),
				zap.String("reason", reason.String()))
			continue
		}

		for _, req := range reqs {
			ledger.Consume(req.materialID, req.perUnit.Mul(quantity))
		}

		totalValue := product.UnitPrice.Mul(quantity)
		plan.Items = append(plan.Items, entities.ProductionPlanItem{
			ProductID:          product.ID,
			Code:               product.Code,
			Name:               product.Name,
			UnitPrice:          product.UnitPrice,
			ProducibleQuantity: quantity,
			TotalValue:         totalValue,
		})
		plan.GrandTotalValue = plan.GrandTotalValue.Add(totalValue)

		e.logger.Debug("product allocated",
			zap.String("product_id", string(product.ID)),
			zap.String("quantity", quantity.String()),
			zap.String("total_value", totalValue.String()))
	}

	return plan
}

// ProducibleQuantity returns how many whole units the lines allow from the ledger's
// current stock, without consuming anything. The bottleneck material decides the result.
// Lines naming the same material are added together first.
func ProducibleQuantity(lines []*entities.RecipeLine, ledger *Ledger) (decimal.Decimal, SkipReason) {
	reqs, reason := requirements(lines)
	if reason != NotSkipped {
		return decimal.Zero, reason
	}
	return bottleneck(reqs, ledger)
}

// requirement is the combined per-unit need for one material
type requirement struct {
	materialID entities.MaterialID
	perUnit    decimal.Decimal
}

// requirements sums recipe lines per material, in order of first appearance
func requirements(lines []*entities.RecipeLine) ([]requirement, SkipReason) {
	if len(lines) == 0 {
		return nil, EmptyRecipe
	}

	index := make(map[entities.MaterialID]int, len(lines))
	reqs := make([]requirement, 0, len(lines))
	for _, line := range lines {
		// One unusable line voids the whole product.
		if line == nil || !line.Usable() {
			return nil, InvalidRecipeLine
		}
		if i, ok := index[line.MaterialID]; ok {
			reqs[i].perUnit = reqs[i].perUnit.Add(*line.RequiredQty)
			continue
		}
		index[line.MaterialID] = len(reqs)
		reqs = append(reqs, requirement{materialID: line.MaterialID, perUnit: *line.RequiredQty})
	}
	return reqs, NotSkipped
}

func bottleneck(reqs []requirement, ledger *Ledger) (decimal.Decimal, SkipReason) {
	var units decimal.Decimal
	for i, req := range reqs {
		possible := wholeUnits(ledger.Get(req.materialID), req.perUnit)
		if i == 0 || possible.LessThan(units) {
			units = possible
		}
	}

	if !units.IsPositive() {
		return decimal.Zero, InsufficientStock
	}
	return units, NotSkipped
}

// wholeUnits divides stock by the per-unit requirement, truncating toward zero
func wholeUnits(stock, required decimal.Decimal) decimal.Decimal {
	quotient, _ := stock.QuoRem(required, 0)
	if quotient.IsNegative() {
		return decimal.Zero
	}
	return quotient
}
