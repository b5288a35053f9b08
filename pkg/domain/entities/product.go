package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductID represents a unique product identifier
type ProductID string

// Product represents a manufacturable product with its selling price
type Product struct {
	ID        ProductID
	Code      string
	Name      string
	UnitPrice decimal.Decimal
}

// NewProduct creates a validated Product
func NewProduct(id ProductID, code, name string, unitPrice decimal.Decimal) (*Product, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if code == "" {
		return nil, fmt.Errorf("product code cannot be empty")
	}
	if !unitPrice.IsPositive() {
		return nil, fmt.Errorf("unit price must be positive, got %s", unitPrice)
	}

	return &Product{
		ID:        id,
		Code:      code,
		Name:      name,
		UnitPrice: unitPrice,
	}, nil
}
