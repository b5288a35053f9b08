package allocation

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

func product(id, price string) *entities.Product {
	return &entities.Product{
		ID:        entities.ProductID(id),
		Code:      "CODE_" + id,
		Name:      "Product " + id,
		UnitPrice: dec(price),
	}
}

func line(productID, materialID string, qty *decimal.Decimal) *entities.RecipeLine {
	return &entities.RecipeLine{
		ProductID:   entities.ProductID(productID),
		MaterialID:  entities.MaterialID(materialID),
		RequiredQty: qty,
	}
}

func material(id, stock string) *entities.Material {
	return &entities.Material{ID: entities.MaterialID(id), Stock: decPtr(stock)}
}

func TestEngine_BottleneckScenario(t *testing.T) {
	ledger := NewLedger([]*entities.Material{
		material("rm1", "10.00"),
		material("rm2", "9.00"),
	})
	recipes := NewRecipeBook([]*entities.RecipeLine{
		line("P1", "rm1", decPtr("2.00")),
		line("P1", "rm2", decPtr("4.00")),
	})

	plan := NewEngine(nil).Generate([]*entities.Product{product("P1", "100.00")}, ledger, recipes)

	if len(plan.Items) != 1 {
		t.Fatalf("Expected 1 plan item, got %d", len(plan.Items))
	}
	item := plan.Items[0]
	if !item.ProducibleQuantity.Equal(dec("2")) {
		t.Errorf("Expected producible quantity 2, got %s", item.ProducibleQuantity)
	}
	if !item.TotalValue.Equal(dec("200.00")) {
		t.Errorf("Expected total value 200.00, got %s", item.TotalValue)
	}
	if !plan.GrandTotalValue.Equal(dec("200.00")) {
		t.Errorf("Expected grand total 200.00, got %s", plan.GrandTotalValue)
	}

	// 2 units consume 4.00 of rm1 and 8.00 of rm2
	if got := ledger.Get("rm1"); !got.Equal(dec("6")) {
		t.Errorf("Expected rm1 remaining 6, got %s", got)
	}
	if got := ledger.Get("rm2"); !got.Equal(dec("1")) {
		t.Errorf("Expected rm2 remaining 1, got %s", got)
	}
}

func TestEngine_SkippedProducts(t *testing.T) {
	tests := []struct {
		name  string
		lines []*entities.RecipeLine
	}{
		{
			name:  "empty recipe",
			lines: nil,
		},
		{
			name: "zero required quantity voids product",
			lines: []*entities.RecipeLine{
				line("P1", "rm1", decPtr("1")),
				line("P1", "rm2", decPtr("0")),
			},
		},
		{
			name: "negative required quantity voids product",
			lines: []*entities.RecipeLine{
				line("P1", "rm1", decPtr("-1")),
			},
		},
		{
			name: "nil required quantity voids product",
			lines: []*entities.RecipeLine{
				line("P1", "rm1", decPtr("1")),
				line("P1", "rm2", nil),
			},
		},
		{
			name: "unknown material",
			lines: []*entities.RecipeLine{
				line("P1", "rm1", decPtr("1")),
				line("P1", "missing", decPtr("1")),
			},
		},
		{
			name: "not enough for one unit",
			lines: []*entities.RecipeLine{
				line("P1", "rm1", decPtr("1000.01")),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := NewLedger([]*entities.Material{
				material("rm1", "1000"),
				material("rm2", "1000"),
			})

			plan := NewEngine(nil).Generate(
				[]*entities.Product{product("P1", "50")},
				ledger,
				NewRecipeBook(tt.lines),
			)

			if len(plan.Items) != 0 {
				t.Errorf("Expected product to be excluded, got %d items", len(plan.Items))
			}
			if !plan.GrandTotalValue.IsZero() {
				t.Errorf("Expected zero grand total, got %s", plan.GrandTotalValue)
			}
			if got := ledger.Get("rm1"); !got.Equal(dec("1000")) {
				t.Errorf("Expected rm1 untouched, got %s", got)
			}
			if got := ledger.Get("rm2"); !got.Equal(dec("1000")) {
				t.Errorf("Expected rm2 untouched, got %s", got)
			}
		})
	}
}

func TestEngine_EmptyRecipeDoesNotAffectOthers(t *testing.T) {
	ledger := NewLedger([]*entities.Material{material("rm1", "10")})
	recipes := NewRecipeBook([]*entities.RecipeLine{
		line("P2", "rm1", decPtr("5")),
	})

	plan := NewEngine(nil).Generate(
		[]*entities.Product{product("P1", "500"), product("P2", "20")},
		ledger,
		recipes,
	)

	if len(plan.Items) != 1 || plan.Items[0].ProductID != "P2" {
		t.Fatalf("Expected only P2 in plan, got %+v", plan.Items)
	}
	if !plan.GrandTotalValue.Equal(dec("40")) {
		t.Errorf("Expected grand total 40, got %s", plan.GrandTotalValue)
	}
}

func TestEngine_SharedMaterialPriority(t *testing.T) {
	ledger := NewLedger([]*entities.Material{material("shared", "10")})
	recipes := NewRecipeBook([]*entities.RecipeLine{
		line("A", "shared", decPtr("4")),
		line("B", "shared", decPtr("2")),
	})

	plan := NewEngine(nil).Generate(
		[]*entities.Product{product("A", "300"), product("B", "100")},
		ledger,
		recipes,
	)

	if len(plan.Items) != 2 {
		t.Fatalf("Expected 2 plan items, got %d", len(plan.Items))
	}
	if plan.Items[0].ProductID != "A" || !plan.Items[0].ProducibleQuantity.Equal(dec("2")) {
		t.Errorf("Expected A x2 first, got %s x%s", plan.Items[0].ProductID, plan.Items[0].ProducibleQuantity)
	}
	if plan.Items[1].ProductID != "B" || !plan.Items[1].ProducibleQuantity.Equal(dec("1")) {
		t.Errorf("Expected B x1 second, got %s x%s", plan.Items[1].ProductID, plan.Items[1].ProducibleQuantity)
	}
	if !plan.GrandTotalValue.Equal(dec("700")) {
		t.Errorf("Expected grand total 700, got %s", plan.GrandTotalValue)
	}
	if got := ledger.Get("shared"); !got.IsZero() {
		t.Errorf("Expected shared material exhausted, got %s", got)
	}
}

func TestEngine_RepeatedMaterialLinesAreCombined(t *testing.T) {
	// two lines of 4 on the same material need 8 per unit
	products := []*entities.Product{product("P", "10.00")}
	recipes := NewRecipeBook([]*entities.RecipeLine{
		line("P", "M", decPtr("4")),
		line("P", "M", decPtr("4")),
	})
	ledger := NewLedger([]*entities.Material{material("M", "10")})

	plan := NewEngine(nil).Generate(products, ledger, recipes)

	item, ok := plan.Item("P")
	if !ok {
		t.Fatal("Expected P to be producible")
	}
	if !item.ProducibleQuantity.Equal(dec("1")) {
		t.Errorf("Expected 1 unit, got %s", item.ProducibleQuantity)
	}
	if !ledger.Get("M").Equal(dec("2")) {
		t.Errorf("Expected 2 M remaining, got %s", ledger.Get("M"))
	}

	qty, reason := ProducibleQuantity(recipes.RecipeLines("P"), NewLedger([]*entities.Material{material("M", "7")}))
	if reason != InsufficientStock || !qty.IsZero() {
		t.Errorf("Expected InsufficientStock with 7 of 8 needed, got %s (%s)", qty, reason)
	}
}

func TestEngine_InputOrderDecidesTies(t *testing.T) {
	recipes := NewRecipeBook([]*entities.RecipeLine{
		line("A", "shared", decPtr("3")),
		line("B", "shared", decPtr("3")),
	})

	first := NewEngine(nil).Generate(
		[]*entities.Product{product("A", "10"), product("B", "10")},
		NewLedger([]*entities.Material{material("shared", "3")}),
		recipes,
	)
	second := NewEngine(nil).Generate(
		[]*entities.Product{product("B", "10"), product("A", "10")},
		NewLedger([]*entities.Material{material("shared", "3")}),
		recipes,
	)

	if len(first.Items) != 1 || first.Items[0].ProductID != "A" {
		t.Errorf("Expected A to win when listed first, got %+v", first.Items)
	}
	if len(second.Items) != 1 || second.Items[0].ProductID != "B" {
		t.Errorf("Expected B to win when listed first, got %+v", second.Items)
	}
}

func TestEngine_FractionalQuantities(t *testing.T) {
	ledger := NewLedger([]*entities.Material{material("flour", "2.75")})
	recipes := NewRecipeBook([]*entities.RecipeLine{
		line("BREAD", "flour", decPtr("0.5")),
	})

	plan := NewEngine(nil).Generate([]*entities.Product{product("BREAD", "3.33")}, ledger, recipes)

	item, ok := plan.Item("BREAD")
	if !ok {
		t.Fatal("Expected BREAD in plan")
	}
	if !item.ProducibleQuantity.Equal(dec("5")) {
		t.Errorf("Expected 5 units (2.75 / 0.5 truncated), got %s", item.ProducibleQuantity)
	}
	if !item.TotalValue.Equal(dec("16.65")) {
		t.Errorf("Expected total value 16.65, got %s", item.TotalValue)
	}
	if got := ledger.Get("flour"); !got.Equal(dec("0.25")) {
		t.Errorf("Expected 0.25 flour remaining, got %s", got)
	}
}

func TestProducibleQuantity_SkipReasons(t *testing.T) {
	ledger := NewLedger([]*entities.Material{material("rm1", "5")})

	tests := []struct {
		name   string
		lines  []*entities.RecipeLine
		reason SkipReason
		qty    string
	}{
		{"empty", nil, EmptyRecipe, "0"},
		{"invalid", []*entities.RecipeLine{line("P", "rm1", decPtr("0"))}, InvalidRecipeLine, "0"},
		{"insufficient", []*entities.RecipeLine{line("P", "rm1", decPtr("6"))}, InsufficientStock, "0"},
		{"producible", []*entities.RecipeLine{line("P", "rm1", decPtr("2"))}, NotSkipped, "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, reason := ProducibleQuantity(tt.lines, ledger)
			if reason != tt.reason {
				t.Errorf("Expected reason %s, got %s", tt.reason, reason)
			}
			if !qty.Equal(dec(tt.qty)) {
				t.Errorf("Expected quantity %s, got %s", tt.qty, qty)
			}
		})
	}

	if got := ledger.Get("rm1"); !got.Equal(dec("5")) {
		t.Errorf("Expected ProducibleQuantity not to consume stock, got %s", got)
	}
}

// randomCatalog builds a reproducible catalog with heavily shared materials
func randomCatalog(seed int64) ([]*entities.Product, []*entities.Material, []*entities.RecipeLine) {
	rng := rand.New(rand.NewSource(seed))

	var materials []*entities.Material
	for i := 0; i < 6; i++ {
		stock := decimal.New(rng.Int63n(50000), -2)
		materials = append(materials, &entities.Material{
			ID:    entities.MaterialID(fmt.Sprintf("M%d", i)),
			Stock: &stock,
		})
	}

	var products []*entities.Product
	var lines []*entities.RecipeLine
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("P%02d", i)
		products = append(products, product(id, decimal.New(rng.Int63n(100000)+1, -2).String()))
		// M6 and M7 have no stock entry
		for _, m := range rng.Perm(8)[:rng.Intn(4)] {
			qty := decimal.New(rng.Int63n(2000)-100, -2)
			lines = append(lines, line(id, fmt.Sprintf("M%d", m), &qty))
		}
	}
	return products, materials, lines
}

func TestEngine_Properties(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			products, materials, lines := randomCatalog(seed)
			recipes := NewRecipeBook(lines)
			engine := NewEngine(nil)

			ledger := NewLedger(materials)
			plan := engine.Generate(products, ledger, recipes)

			// Determinism
			again := engine.Generate(products, NewLedger(materials), recipes)
			if fmt.Sprint(plan) != fmt.Sprint(again) {
				t.Fatalf("Expected identical plans for identical inputs")
			}

			// Grand total additivity
			sum := decimal.Zero
			for _, item := range plan.Items {
				sum = sum.Add(item.TotalValue)
				if !item.TotalValue.Equal(item.UnitPrice.Mul(item.ProducibleQuantity)) {
					t.Errorf("Item %s total %s != price x quantity", item.ProductID, item.TotalValue)
				}
				if !item.ProducibleQuantity.IsInteger() || !item.ProducibleQuantity.IsPositive() {
					t.Errorf("Item %s has non-whole quantity %s", item.ProductID, item.ProducibleQuantity)
				}
			}
			if !sum.Equal(plan.GrandTotalValue) {
				t.Errorf("Expected grand total %s, got %s", sum, plan.GrandTotalValue)
			}

			// Conservation and non-negativity
			consumed := make(map[entities.MaterialID]decimal.Decimal)
			for _, item := range plan.Items {
				for _, l := range recipes.RecipeLines(item.ProductID) {
					consumed[l.MaterialID] = consumed[l.MaterialID].Add(l.RequiredQty.Mul(item.ProducibleQuantity))
				}
			}
			initial := NewLedger(materials)
			for id, used := range consumed {
				if used.GreaterThan(initial.Get(id)) {
					t.Errorf("Material %s over-consumed: used %s of %s", id, used, initial.Get(id))
				}
			}
			for id, qty := range ledger.Remaining() {
				if qty.IsNegative() {
					t.Errorf("Material %s went negative: %s", id, qty)
				}
			}
		})
	}
}

func TestEngine_BottleneckLaw(t *testing.T) {
	for seed := int64(100); seed < 120; seed++ {
		products, materials, lines := randomCatalog(seed)
		recipes := NewRecipeBook(lines)

		for _, p := range products {
			ledger := NewLedger(materials)
			plan := NewEngine(nil).Generate([]*entities.Product{p}, ledger, recipes)

			expected := decimal.Zero
			productLines := recipes.RecipeLines(p.ID)
			valid := len(productLines) > 0
			for i, l := range productLines {
				if !l.RequiredQty.IsPositive() {
					valid = false
					break
				}
				units := NewLedger(materials).Get(l.MaterialID).Div(*l.RequiredQty).Floor()
				if i == 0 || units.LessThan(expected) {
					expected = units
				}
			}
			if !valid {
				expected = decimal.Zero
			}

			item, ok := plan.Item(p.ID)
			got := decimal.Zero
			if ok {
				got = item.ProducibleQuantity
			}
			if !got.Equal(expected) {
				t.Errorf("seed %d product %s: expected %s units, got %s", seed, p.ID, expected, got)
			}
		}
	}
}
