package repositories

import (
	"context"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

// RecipeRepository provides access to product recipes (bills of materials)
type RecipeRepository interface {
	// GetRecipeLines returns the lines for a product in insertion order.
	// A product without a recipe yields an empty slice, not an error.
	GetRecipeLines(ctx context.Context, productID entities.ProductID) ([]*entities.RecipeLine, error)
	GetAllRecipeLines(ctx context.Context) ([]*entities.RecipeLine, error)
	LoadRecipeLines(ctx context.Context, lines []*entities.RecipeLine) error
}
