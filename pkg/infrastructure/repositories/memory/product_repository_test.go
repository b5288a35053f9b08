package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/domain/repositories"
)

func TestProductRepository_GetProduct(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(2)

	err := repo.LoadProducts(ctx, []*entities.Product{
		{ID: "P1", Code: "TABLE", Name: "Table", UnitPrice: decimal.NewFromInt(250)},
	})
	if err != nil {
		t.Fatalf("Failed to load products: %v", err)
	}

	retrieved, err := repo.GetProduct(ctx, "P1")
	if err != nil {
		t.Fatalf("Failed to get product: %v", err)
	}
	if retrieved.Code != "TABLE" {
		t.Errorf("Expected code TABLE, got %s", retrieved.Code)
	}

	_, err = repo.GetProduct(ctx, "MISSING")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProductRepository_AddProduct_Replaces(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(2)

	repo.AddProduct(entities.Product{ID: "P1", Code: "OLD", UnitPrice: decimal.NewFromInt(1)})
	repo.AddProduct(entities.Product{ID: "P1", Code: "NEW", UnitPrice: decimal.NewFromInt(2)})

	products, err := repo.GetProductsByPriority(ctx)
	if err != nil {
		t.Fatalf("Failed to list products: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Expected 1 product after replace, got %d", len(products))
	}
	if products[0].Code != "NEW" {
		t.Errorf("Expected replaced code NEW, got %s", products[0].Code)
	}
}

func TestProductRepository_GetProductsByPriority(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(4)

	for _, p := range []entities.Product{
		{ID: "CHEAP", UnitPrice: decimal.RequireFromString("9.99")},
		{ID: "TIE_FIRST", UnitPrice: decimal.RequireFromString("50")},
		{ID: "PRICEY", UnitPrice: decimal.RequireFromString("120.50")},
		{ID: "TIE_SECOND", UnitPrice: decimal.RequireFromString("50.00")},
	} {
		repo.AddProduct(p)
	}

	products, err := repo.GetProductsByPriority(ctx)
	if err != nil {
		t.Fatalf("Failed to list products: %v", err)
	}

	expected := []entities.ProductID{"PRICEY", "TIE_FIRST", "TIE_SECOND", "CHEAP"}
	if len(products) != len(expected) {
		t.Fatalf("Expected %d products, got %d", len(expected), len(products))
	}
	for i, id := range expected {
		if products[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, products[i].ID)
		}
	}
}
