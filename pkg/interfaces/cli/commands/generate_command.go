package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Products  int     // Number of products to generate
	Materials int     // Number of raw materials to generate
	MaxLines  int     // Maximum recipe lines per product
	Stock     float64 // Stock multiplier (e.g., 0.5 = half coverage, 2.0 = double coverage)
	OutputDir string  // Output directory for generated files
	Seed      int64   // Random seed for reproducible generation
	Help      bool    // Show help
	Verbose   bool    // Verbose output
}

// targetUnits is how many units of every product a 1.0 stock multiplier covers on its own
const targetUnits = 10

// GenerateCommand writes a random planning scenario as CSV files
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	logger *zap.Logger
	out    io.Writer
}

// generatedProduct is one product and its recipe before it is written out
type generatedProduct struct {
	id        string
	code      string
	name      string
	unitPrice decimal.Decimal
	recipe    []generatedLine
}

type generatedLine struct {
	materialID  string
	requiredQty decimal.Decimal
}

type generatedMaterial struct {
	id    string
	code  string
	name  string
	stock decimal.Decimal
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig, logger *zap.Logger) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		logger: logger,
		out:    os.Stdout,
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out,
			"🔧 Generating scenario with %d products, %d materials, up to %d lines per recipe, %.1fx stock\n",
			cmd.config.Products,
			cmd.config.Materials,
			cmd.config.MaxLines,
			cmd.config.Stock,
		)
		fmt.Fprintf(cmd.out, "📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Fprintf(cmd.out, "🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	materials := cmd.generateMaterials()
	products := cmd.generateProducts(materials)
	cmd.assignStock(materials, products)

	if err := cmd.writeProducts(products); err != nil {
		return fmt.Errorf("failed to generate products: %w", err)
	}
	if err := cmd.writeMaterials(materials); err != nil {
		return fmt.Errorf("failed to generate materials: %w", err)
	}
	if err := cmd.writeRecipes(products); err != nil {
		return fmt.Errorf("failed to generate recipes: %w", err)
	}

	cmd.logger.Info("scenario generated",
		zap.String("output_dir", cmd.config.OutputDir),
		zap.Int("products", len(products)),
		zap.Int("materials", len(materials)))

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	switch {
	case cmd.config.Products <= 0:
		return fmt.Errorf("-products must be positive")
	case cmd.config.Materials <= 0:
		return fmt.Errorf("-materials must be positive")
	case cmd.config.MaxLines <= 0:
		return fmt.Errorf("-max-lines must be positive")
	case cmd.config.Stock < 0:
		return fmt.Errorf("-stock cannot be negative")
	case cmd.config.OutputDir == "":
		return fmt.Errorf("-output is required")
	}
	return nil
}

// generateMaterials creates materials with zero stock; assignStock fills it in
func (cmd *GenerateCommand) generateMaterials() []*generatedMaterial {
	kinds := []string{"Oak board", "Steel rod", "Wood screw", "Varnish", "Glue", "Cork sheet", "Hinge", "Fabric"}

	materials := make([]*generatedMaterial, 0, cmd.config.Materials)
	for i := 0; i < cmd.config.Materials; i++ {
		materials = append(materials, &generatedMaterial{
			id:    fmt.Sprintf("MAT_%04d", i+1),
			code:  fmt.Sprintf("M-%04d", i+1),
			name:  fmt.Sprintf("%s %d", kinds[cmd.rand.Intn(len(kinds))], i+1),
			stock: decimal.Zero,
		})
	}
	return materials
}

// generateProducts gives every product a price and a recipe of distinct materials
func (cmd *GenerateCommand) generateProducts(materials []*generatedMaterial) []*generatedProduct {
	kinds := []string{"Table", "Chair", "Shelf", "Stool", "Bench", "Cabinet", "Coaster", "Hook"}
	maxLines := min(cmd.config.MaxLines, len(materials))

	products := make([]*generatedProduct, 0, cmd.config.Products)
	for i := 0; i < cmd.config.Products; i++ {
		p := &generatedProduct{
			id:   fmt.Sprintf("PROD_%04d", i+1),
			code: fmt.Sprintf("P-%04d", i+1),
			name: fmt.Sprintf("%s %d", kinds[cmd.rand.Intn(len(kinds))], i+1),
			// 5.00 to 999.99
			unitPrice: decimal.New(500+cmd.rand.Int63n(99500), -2),
		}

		numLines := 1 + cmd.rand.Intn(maxLines)
		for _, m := range cmd.rand.Perm(len(materials))[:numLines] {
			p.recipe = append(p.recipe, generatedLine{
				materialID: materials[m].id,
				// 0.25 to 20.00
				requiredQty: decimal.New(25+cmd.rand.Int63n(1976), -2),
			})
		}
		products = append(products, p)
	}
	return products
}

// assignStock sizes each material to the demand of targetUnits of every product using it,
// scaled by the stock multiplier and a little noise
func (cmd *GenerateCommand) assignStock(materials []*generatedMaterial, products []*generatedProduct) {
	demand := make(map[string]decimal.Decimal, len(materials))
	for _, p := range products {
		for _, l := range p.recipe {
			demand[l.materialID] = demand[l.materialID].Add(l.requiredQty.Mul(decimal.NewFromInt(targetUnits)))
		}
	}

	multiplier := decimal.NewFromFloat(cmd.config.Stock)
	for _, m := range materials {
		noise := decimal.New(75+cmd.rand.Int63n(51), -2) // 0.75 to 1.25
		m.stock = demand[m.id].Mul(multiplier).Mul(noise).Truncate(2)
	}
}

func (cmd *GenerateCommand) writeProducts(products []*generatedProduct) error {
	records := [][]string{{"id", "code", "name", "unit_price"}}
	for _, p := range products {
		records = append(records, []string{p.id, p.code, p.name, p.unitPrice.StringFixed(2)})
	}
	return cmd.writeCSV("products.csv", records)
}

func (cmd *GenerateCommand) writeMaterials(materials []*generatedMaterial) error {
	records := [][]string{{"id", "code", "name", "stock"}}
	for _, m := range materials {
		records = append(records, []string{m.id, m.code, m.name, m.stock.String()})
	}
	return cmd.writeCSV("materials.csv", records)
}

func (cmd *GenerateCommand) writeRecipes(products []*generatedProduct) error {
	records := [][]string{{"product_id", "material_id", "required_qty"}}
	for _, p := range products {
		for _, l := range p.recipe {
			records = append(records, []string{p.id, l.materialID, l.requiredQty.String()})
		}
	}
	return cmd.writeCSV("recipes.csv", records)
}

func (cmd *GenerateCommand) writeCSV(name string, records [][]string) error {
	filePath := filepath.Join(cmd.config.OutputDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "📦 Wrote %s (%d rows)\n", filePath, len(records)-1)
	}
	return nil
}

// printHelp shows usage information
func (cmd *GenerateCommand) printHelp() {
	fmt.Fprintln(cmd.out, `Capacity Scenario Generator

USAGE:
    capacity generate [OPTIONS]

OPTIONS:
    -products <N>       Number of products to generate (default: 20)
    -materials <N>      Number of raw materials to generate (default: 8)
    -max-lines <N>      Maximum recipe lines per product (default: 4)
    -stock <F>          Stock multiplier (e.g., 0.5 = half coverage, 2.0 = double coverage) (default: 1.0)
    -output <DIR>       Output directory for generated files (required)
    -seed <N>           Random seed for reproducible generation (optional)
    -verbose            Enable verbose output
    -help               Show this help message

EXAMPLES:
    # Generate a small scenario and plan it
    capacity generate -products 20 -materials 8 -output ./scenario
    capacity -scenario ./scenario

    # Generate a reproducible, stock-starved scenario
    capacity generate -products 500 -materials 40 -stock 0.3 -seed 12345 -output ./tight`)
}
