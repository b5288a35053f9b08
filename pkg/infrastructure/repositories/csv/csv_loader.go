package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/capacity/pkg/domain/entities"
)

var (
	productsHeader  = []string{"id", "code", "name", "unit_price"}
	materialsHeader = []string{"id", "code", "name", "stock"}
	recipesHeader   = []string{"product_id", "material_id", "required_qty"}
)

// Loader handles loading catalog data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadProducts loads products from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	rows, err := readRecords(filename, "products", productsHeader)
	if err != nil {
		return nil, err
	}

	var products []*entities.Product
	for i, record := range rows {
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// LoadMaterials loads materials and their stock from a CSV file.
// An empty stock cell is kept as an absent value.
func (l *Loader) LoadMaterials(filename string) ([]*entities.Material, error) {
	rows, err := readRecords(filename, "materials", materialsHeader)
	if err != nil {
		return nil, err
	}

	var materials []*entities.Material
	for i, record := range rows {
		material, err := parseMaterial(record)
		if err != nil {
			return nil, fmt.Errorf("materials CSV row %d: %w", i+2, err)
		}
		materials = append(materials, material)
	}

	return materials, nil
}

// LoadRecipes loads recipe lines from a CSV file.
// An empty required_qty cell is kept as an absent value.
func (l *Loader) LoadRecipes(filename string) ([]*entities.RecipeLine, error) {
	rows, err := readRecords(filename, "recipes", recipesHeader)
	if err != nil {
		return nil, err
	}

	var lines []*entities.RecipeLine
	for i, record := range rows {
		line, err := parseRecipeLine(record)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// readRecords opens a CSV file, validates its header and returns the data rows
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProduct(record []string) (*entities.Product, error) {
	unitPrice, err := decimal.NewFromString(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price %q: %w", record[3], err)
	}

	return entities.NewProduct(
		entities.ProductID(strings.TrimSpace(record[0])),
		strings.TrimSpace(record[1]),
		strings.TrimSpace(record[2]),
		unitPrice,
	)
}

func parseMaterial(record []string) (*entities.Material, error) {
	stock, err := parseOptionalDecimal(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid stock %q: %w", record[3], err)
	}

	return entities.NewMaterial(
		entities.MaterialID(strings.TrimSpace(record[0])),
		strings.TrimSpace(record[1]),
		strings.TrimSpace(record[2]),
		stock,
	)
}

func parseRecipeLine(record []string) (*entities.RecipeLine, error) {
	requiredQty, err := parseOptionalDecimal(record[2])
	if err != nil {
		return nil, fmt.Errorf("invalid required_qty %q: %w", record[2], err)
	}

	return entities.NewRecipeLine(
		entities.ProductID(strings.TrimSpace(record[0])),
		entities.MaterialID(strings.TrimSpace(record[1])),
		requiredQty,
	)
}

// parseOptionalDecimal returns nil for an empty or "null" cell
func parseOptionalDecimal(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
