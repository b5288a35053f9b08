package services

import (
	"fmt"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

// CatalogValidator checks catalog consistency without blocking planning.
// Everything it reports still plans: the affected products are simply not producible.
type CatalogValidator struct{}

// NewCatalogValidator creates a new catalog validator
func NewCatalogValidator() *CatalogValidator {
	return &CatalogValidator{}
}

// ValidationResult contains the results of catalog validation
type ValidationResult struct {
	UnknownProducts   []entities.ProductID
	UnknownMaterials  []entities.MaterialID
	UnusableProducts  []entities.ProductID
	ProductsNoRecipe  []entities.ProductID
	DuplicateProducts []entities.ProductID
	Warnings          []string
}

// HasWarnings reports whether validation found anything worth surfacing
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ValidateCatalog cross-checks products, materials and recipe lines
func (v *CatalogValidator) ValidateCatalog(
	products []*entities.Product,
	materials []*entities.Material,
	lines []*entities.RecipeLine,
) *ValidationResult {
	result := &ValidationResult{
		UnknownProducts:   make([]entities.ProductID, 0),
		UnknownMaterials:  make([]entities.MaterialID, 0),
		UnusableProducts:  make([]entities.ProductID, 0),
		ProductsNoRecipe:  make([]entities.ProductID, 0),
		DuplicateProducts: make([]entities.ProductID, 0),
		Warnings:          make([]string, 0),
	}

	knownProducts := make(map[entities.ProductID]bool, len(products))
	for _, p := range products {
		if knownProducts[p.ID] {
			result.DuplicateProducts = append(result.DuplicateProducts, p.ID)
		}
		knownProducts[p.ID] = true
	}

	knownMaterials := make(map[entities.MaterialID]bool, len(materials))
	for _, m := range materials {
		knownMaterials[m.ID] = true
	}

	withRecipe := make(map[entities.ProductID]bool)
	unusable := make(map[entities.ProductID]bool)
	reportedProduct := make(map[entities.ProductID]bool)
	reportedMaterial := make(map[entities.MaterialID]bool)

	for _, line := range lines {
		withRecipe[line.ProductID] = true

		if !knownProducts[line.ProductID] && !reportedProduct[line.ProductID] {
			reportedProduct[line.ProductID] = true
			result.UnknownProducts = append(result.UnknownProducts, line.ProductID)
		}
		if !knownMaterials[line.MaterialID] && !reportedMaterial[line.MaterialID] {
			reportedMaterial[line.MaterialID] = true
			result.UnknownMaterials = append(result.UnknownMaterials, line.MaterialID)
		}
		if !line.Usable() && !unusable[line.ProductID] {
			unusable[line.ProductID] = true
			result.UnusableProducts = append(result.UnusableProducts, line.ProductID)
		}
	}

	for _, p := range products {
		if !withRecipe[p.ID] {
			result.ProductsNoRecipe = append(result.ProductsNoRecipe, p.ID)
		}
	}

	if len(result.DuplicateProducts) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Duplicate product ids: %v", result.DuplicateProducts))
	}
	if len(result.UnknownProducts) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Recipe lines reference unknown products: %v", result.UnknownProducts))
	}
	if len(result.UnknownMaterials) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Recipe lines reference materials without stock records: %v", result.UnknownMaterials))
	}
	if len(result.UnusableProducts) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Products with missing or non-positive required quantities: %v", result.UnusableProducts))
	}
	if len(result.ProductsNoRecipe) > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Products without a recipe: %v", result.ProductsNoRecipe))
	}

	return result
}
