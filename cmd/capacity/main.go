package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vsinha/capacity/pkg/interfaces/cli/commands"
	"github.com/vsinha/capacity/pkg/logger"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "generate" {
		runGenerate(os.Args[2:])
		return
	}

	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing products.csv, materials.csv and recipes.csv",
		)
		productsFile  = flag.String("products", "", "Path to products CSV file")
		materialsFile = flag.String("materials", "", "Path to materials CSV file")
		recipesFile   = flag.String("recipes", "", "Path to recipes CSV file")
		sqlitePath    = flag.String("sqlite", "", "Path to SQLite catalog")
		importCSV     = flag.Bool("import", false, "Import CSV inputs into the SQLite catalog before planning")
		outputDir     = flag.String("output", "", "Output directory for results (optional)")
		format        = flag.String("format", "text", "Output format: text, json, csv")
		verbose       = flag.Bool("verbose", false, "Enable verbose output")
		help          = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	config := commands.Config{
		ScenarioDir:   *scenarioDir,
		ProductsFile:  *productsFile,
		MaterialsFile: *materialsFile,
		RecipesFile:   *recipesFile,
		SQLitePath:    *sqlitePath,
		Import:        *importCSV,
		OutputDir:     *outputDir,
		Format:        *format,
		Verbose:       *verbose,
		Help:          *help,
	}

	// Logs go to stderr so stdout stays clean for json and csv output.
	log := logger.Must(logger.New("warn"))
	if *verbose {
		log = logger.Must(logger.NewDevelopment())
	}
	defer func() { _ = log.Sync() }()

	cmd := commands.NewPlanCommand(config, log)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		products  = fs.Int("products", 20, "Number of products to generate")
		materials = fs.Int("materials", 8, "Number of raw materials to generate")
		maxLines  = fs.Int("max-lines", 4, "Maximum recipe lines per product")
		stock     = fs.Float64("stock", 1.0, "Stock multiplier (e.g., 0.5 = half coverage)")
		outputDir = fs.String("output", "", "Output directory for generated files")
		seed      = fs.Int64("seed", 0, "Random seed for reproducible generation")
		verbose   = fs.Bool("verbose", false, "Enable verbose output")
		help      = fs.Bool("help", false, "Show help message")
	)
	_ = fs.Parse(args)

	config := commands.GenerateConfig{
		Products:  *products,
		Materials: *materials,
		MaxLines:  *maxLines,
		Stock:     *stock,
		OutputDir: *outputDir,
		Seed:      *seed,
		Verbose:   *verbose,
		Help:      *help,
	}

	log := logger.Must(logger.New("warn"))
	defer func() { _ = log.Sync() }()

	if err := commands.NewGenerateCommand(config, log).Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
