package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecipeLine represents a single line in a product's bill of materials.
// RequiredQty may be nil or non-positive; such lines make the product
// unproducible during allocation rather than failing construction.
type RecipeLine struct {
	ProductID   ProductID
	MaterialID  MaterialID
	RequiredQty *decimal.Decimal
}

// NewRecipeLine creates a validated RecipeLine
func NewRecipeLine(productID ProductID, materialID MaterialID, requiredQty *decimal.Decimal) (*RecipeLine, error) {
	if string(productID) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if string(materialID) == "" {
		return nil, fmt.Errorf("material id cannot be empty")
	}

	return &RecipeLine{
		ProductID:   productID,
		MaterialID:  materialID,
		RequiredQty: requiredQty,
	}, nil
}

// Usable reports whether the line has a strictly positive required quantity
func (l RecipeLine) Usable() bool {
	return l.RequiredQty != nil && l.RequiredQty.IsPositive()
}
