package testing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/infrastructure/repositories/memory"
)

// Qty parses a decimal literal and returns a pointer to it; it panics on bad input
func Qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// mustCreateProduct is a helper for tests - panics on validation error
func mustCreateProduct(id, code, name, unitPrice string) *entities.Product {
	product, err := entities.NewProduct(
		entities.ProductID(id),
		code,
		name,
		decimal.RequireFromString(unitPrice),
	)
	if err != nil {
		panic(err)
	}
	return product
}

// mustCreateMaterial is a helper for tests - panics on validation error
func mustCreateMaterial(id, name string, stock *decimal.Decimal) *entities.Material {
	material, err := entities.NewMaterial(entities.MaterialID(id), id, name, stock)
	if err != nil {
		panic(err)
	}
	return material
}

// mustCreateRecipeLine is a helper for tests - panics on validation error
func mustCreateRecipeLine(productID, materialID string, requiredQty *decimal.Decimal) *entities.RecipeLine {
	line, err := entities.NewRecipeLine(
		entities.ProductID(productID),
		entities.MaterialID(materialID),
		requiredQty,
	)
	if err != nil {
		panic(err)
	}
	return line
}

// BuildWorkshopTestData builds a furniture workshop catalog.
//
// Planning it by descending price yields:
//
//	TABLE  x3   = 1350.00
//	BENCH  skipped (zero glue requirement)
//	CHAIR  x2   =  240.00
//	SHELF  skipped (steel not stocked)
//	STOOL  skipped (oak exhausted)
//	COASTER skipped (no recipe)
//	HOOK   x112 =  280.00
//
// for a grand total of 1870.00, leaving OAK, SCREW and VARNISH at zero.
func BuildWorkshopTestData() (*memory.ProductRepository, *memory.MaterialRepository, *memory.RecipeRepository) {
	ctx := context.Background()
	productRepo := memory.NewProductRepository(7)
	materialRepo := memory.NewMaterialRepository(4)
	recipeRepo := memory.NewRecipeRepository(12)

	products := []*entities.Product{
		mustCreateProduct("HOOK", "HK-01", "Coat Hook", "2.50"),
		mustCreateProduct("CHAIR", "CH-01", "Oak Chair", "120.00"),
		mustCreateProduct("TABLE", "TB-01", "Oak Table", "450.00"),
		mustCreateProduct("STOOL", "ST-01", "Oak Stool", "45.00"),
		mustCreateProduct("SHELF", "SH-01", "Steel Shelf", "80.00"),
		mustCreateProduct("BENCH", "BN-01", "Glued Bench", "200.00"),
		mustCreateProduct("COASTER", "CO-01", "Cork Coaster", "5.00"),
	}
	if err := productRepo.LoadProducts(ctx, products); err != nil {
		panic(err)
	}

	materials := []*entities.Material{
		mustCreateMaterial("OAK", "Oak board", Qty("40.00")),
		mustCreateMaterial("SCREW", "Wood screw", Qty("200")),
		mustCreateMaterial("VARNISH", "Varnish (l)", Qty("3.5")),
		mustCreateMaterial("GLUE", "Wood glue", nil),
	}
	if err := materialRepo.LoadMaterials(ctx, materials); err != nil {
		panic(err)
	}

	lines := []*entities.RecipeLine{
		mustCreateRecipeLine("TABLE", "OAK", Qty("12")),
		mustCreateRecipeLine("TABLE", "SCREW", Qty("24")),
		mustCreateRecipeLine("TABLE", "VARNISH", Qty("1.0")),
		mustCreateRecipeLine("BENCH", "OAK", Qty("4")),
		mustCreateRecipeLine("BENCH", "GLUE", Qty("0")),
		mustCreateRecipeLine("CHAIR", "OAK", Qty("2")),
		mustCreateRecipeLine("CHAIR", "SCREW", Qty("8")),
		mustCreateRecipeLine("CHAIR", "VARNISH", Qty("0.25")),
		mustCreateRecipeLine("SHELF", "STEEL", Qty("3")),
		mustCreateRecipeLine("STOOL", "OAK", Qty("1")),
		mustCreateRecipeLine("STOOL", "SCREW", Qty("4")),
		mustCreateRecipeLine("HOOK", "SCREW", Qty("1")),
	}
	if err := recipeRepo.LoadRecipeLines(ctx, lines); err != nil {
		panic(err)
	}

	return productRepo, materialRepo, recipeRepo
}
