package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/domain/repositories"
)

type recipeKey struct {
	productID  entities.ProductID
	materialID entities.MaterialID
}

// RecipeRepository provides in-memory recipe storage indexed by product
type RecipeRepository struct {
	mu           sync.RWMutex
	lines        []entities.RecipeLine
	lineIndexes  map[entities.ProductID][]int
	seenMaterial map[recipeKey]struct{}
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository(expectedLines int) *RecipeRepository {
	return &RecipeRepository{
		lines:        make([]entities.RecipeLine, 0, expectedLines),
		lineIndexes:  make(map[entities.ProductID][]int),
		seenMaterial: make(map[recipeKey]struct{}, expectedLines),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipeLines loads recipe lines into the repository
func (r *RecipeRepository) LoadRecipeLines(_ context.Context, lines []*entities.RecipeLine) error {
	for _, line := range lines {
		if line == nil {
			continue
		}
		if err := r.AddRecipeLine(*line); err != nil {
			return err
		}
	}
	return nil
}

// AddRecipeLine adds a recipe line. A product may reference each material only once.
func (r *RecipeRepository) AddRecipeLine(line entities.RecipeLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recipeKey{productID: line.ProductID, materialID: line.MaterialID}
	if _, exists := r.seenMaterial[key]; exists {
		return fmt.Errorf("duplicate recipe line for product %s and material %s", line.ProductID, line.MaterialID)
	}
	r.seenMaterial[key] = struct{}{}

	if line.RequiredQty != nil {
		qty := *line.RequiredQty
		line.RequiredQty = &qty
	}
	r.lineIndexes[line.ProductID] = append(r.lineIndexes[line.ProductID], len(r.lines))
	r.lines = append(r.lines, line)
	return nil
}

// GetRecipeLines returns the recipe lines for a product
func (r *RecipeRepository) GetRecipeLines(_ context.Context, productID entities.ProductID) ([]*entities.RecipeLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indexes := r.lineIndexes[productID]
	lines := make([]*entities.RecipeLine, 0, len(indexes))
	for _, index := range indexes {
		line := r.lines[index]
		lines = append(lines, &line)
	}
	return lines, nil
}

// GetAllRecipeLines returns all recipe lines in insertion order
func (r *RecipeRepository) GetAllRecipeLines(_ context.Context) ([]*entities.RecipeLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lines := make([]*entities.RecipeLine, 0, len(r.lines))
	for i := range r.lines {
		line := r.lines[i]
		lines = append(lines, &line)
	}
	return lines, nil
}
