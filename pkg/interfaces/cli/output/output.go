package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vsinha/capacity/pkg/application/dto"
	"github.com/vsinha/capacity/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	PlanTime  time.Duration
	// Out receives console output; nil means stdout.
	Out io.Writer
}

func (c Config) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Generate creates output in the specified format
func Generate(plan *entities.ProductionPlan, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(plan, config)
	case "json":
		return generateJSONOutput(plan, config)
	case "csv":
		return generateCSVOutput(plan, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(plan *entities.ProductionPlan, config Config) error {
	w := config.writer()

	fmt.Fprintf(w, "📊 Production Plan Summary\n")
	fmt.Fprintf(w, "==========================\n\n")

	fmt.Fprintf(w, "Producible Products: %d\n", len(plan.Items))
	fmt.Fprintf(w, "Grand Total Value: %s\n", entities.FormatMoney(plan.GrandTotalValue))
	if config.Verbose {
		fmt.Fprintf(w, "Planning Time: %v\n", config.PlanTime)
	}
	fmt.Fprintln(w)

	if len(plan.Items) > 0 {
		fmt.Fprintf(w, "📋 Plan Items:\n")
		fmt.Fprintf(w, "%-12s %-10s %-24s %12s %10s %14s\n",
			"Product", "Code", "Name", "Unit Price", "Quantity", "Total Value")
		fmt.Fprintf(w, "%-12s %-10s %-24s %12s %10s %14s\n",
			"------------", "----------", "------------------------", "------------", "----------", "--------------")

		for _, item := range plan.Items {
			fmt.Fprintf(w, "%-12s %-10s %-24s %12s %10s %14s\n",
				item.ProductID,
				item.Code,
				item.Name,
				entities.FormatMoney(item.UnitPrice),
				item.ProducibleQuantity.String(),
				entities.FormatMoney(item.TotalValue))
		}
		fmt.Fprintln(w)
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(plan *entities.ProductionPlan, config Config) error {
	jsonData, err := json.MarshalIndent(dto.NewProductionPlanResponse(*plan), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "production_plan.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates CSV output, one row per plan item plus a total row
func generateCSVOutput(plan *entities.ProductionPlan, config Config) error {
	if config.OutputDir == "" {
		return writePlanCSV(plan, config.writer())
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "production_plan.csv")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := writePlanCSV(plan, file); err != nil {
		return fmt.Errorf("failed to write production plan CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 CSV results saved to: %s\n", filename)
	}
	return nil
}

func writePlanCSV(plan *entities.ProductionPlan, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"product_id", "code", "name", "unit_price", "producible_quantity", "total_value"}); err != nil {
		return err
	}
	for _, item := range plan.Items {
		record := []string{
			string(item.ProductID),
			item.Code,
			item.Name,
			entities.FormatMoney(item.UnitPrice),
			item.ProducibleQuantity.String(),
			entities.FormatMoney(item.TotalValue),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"TOTAL", "", "", "", "", entities.FormatMoney(plan.GrandTotalValue)}); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}
