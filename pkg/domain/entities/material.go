package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaterialID represents a unique raw material identifier
type MaterialID string

// Material represents a raw material and its on-hand stock.
// A nil Stock means the snapshot carried no value and is read as zero.
type Material struct {
	ID    MaterialID
	Code  string
	Name  string
	Stock *decimal.Decimal
}

// NewMaterial creates a validated Material
func NewMaterial(id MaterialID, code, name string, stock *decimal.Decimal) (*Material, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("material id cannot be empty")
	}
	if stock != nil && stock.IsNegative() {
		return nil, fmt.Errorf("stock cannot be negative, got %s", stock)
	}

	return &Material{
		ID:    id,
		Code:  code,
		Name:  name,
		Stock: stock,
	}, nil
}

// StockOrZero returns the stock quantity, treating an absent value as zero
func (m Material) StockOrZero() decimal.Decimal {
	if m.Stock == nil {
		return decimal.Zero
	}
	return *m.Stock
}
