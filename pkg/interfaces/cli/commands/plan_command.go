package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/capacity/pkg/application/services"
	"github.com/vsinha/capacity/pkg/domain/repositories"
	domainservices "github.com/vsinha/capacity/pkg/domain/services"
	"github.com/vsinha/capacity/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/capacity/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/capacity/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/capacity/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command
type Config struct {
	ScenarioDir   string
	ProductsFile  string
	MaterialsFile string
	RecipesFile   string
	SQLitePath    string
	Import        bool
	OutputDir     string
	Format        string
	Verbose       bool
	Help          bool
}

// catalog bundles the three repositories a plan reads from
type catalog struct {
	products  repositories.ProductRepository
	materials repositories.MaterialRepository
	recipes   repositories.RecipeRepository
	close     func() error
}

// PlanCommand handles the production plan CLI
type PlanCommand struct {
	config Config
	logger *zap.Logger
	out    io.Writer
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config, logger *zap.Logger) *PlanCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanCommand{
		config: config,
		logger: logger,
		out:    os.Stdout,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	cat, err := c.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := cat.close(); err != nil {
			c.logger.Warn("failed to close catalog", zap.Error(err))
		}
	}()

	if err := c.validateCatalog(ctx, cat); err != nil {
		return err
	}

	planner := services.NewPlannerService(cat.products, cat.materials, cat.recipes, c.logger.Named("planner"))

	startTime := time.Now()
	plan, err := planner.Plan(ctx)
	planTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error generating production plan: %w", err)
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		PlanTime:  planTime,
		Out:       c.out,
	}
	if err := output.Generate(plan, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	return nil
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	hasCSV := c.config.ScenarioDir != "" ||
		(c.config.ProductsFile != "" && c.config.MaterialsFile != "" && c.config.RecipesFile != "")

	switch {
	case c.config.Import && (!hasCSV || c.config.SQLitePath == ""):
		return fmt.Errorf("-import requires CSV inputs and -sqlite")
	case !hasCSV && c.config.SQLitePath == "":
		return fmt.Errorf("must specify -scenario directory, individual CSV files, or -sqlite")
	case hasCSV && c.config.SQLitePath != "" && !c.config.Import:
		return fmt.Errorf("CSV inputs and -sqlite given without -import")
	}
	return nil
}

// resolveInputFiles determines the actual CSV paths to use
func (c *PlanCommand) resolveInputFiles() (map[string]string, error) {
	var productsPath, materialsPath, recipesPath string

	if c.config.ScenarioDir != "" {
		productsPath = filepath.Join(c.config.ScenarioDir, "products.csv")
		materialsPath = filepath.Join(c.config.ScenarioDir, "materials.csv")
		recipesPath = filepath.Join(c.config.ScenarioDir, "recipes.csv")
	} else {
		productsPath = c.config.ProductsFile
		materialsPath = c.config.MaterialsFile
		recipesPath = c.config.RecipesFile
	}

	files := map[string]string{
		"Products":  productsPath,
		"Materials": materialsPath,
		"Recipes":   recipesPath,
	}

	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	return files, nil
}

// openCatalog loads CSV inputs into memory, imports them into SQLite, or opens SQLite directly
func (c *PlanCommand) openCatalog(ctx context.Context) (*catalog, error) {
	if c.config.SQLitePath != "" && !c.config.Import {
		return c.openSQLite(ctx)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve input files: %w", err)
	}
	c.logger.Info("loading catalog from CSV",
		zap.String("products", files["Products"]),
		zap.String("materials", files["Materials"]),
		zap.String("recipes", files["Recipes"]))

	loader := csv.NewLoader()
	products, err := loader.LoadProducts(files["Products"])
	if err != nil {
		return nil, fmt.Errorf("error loading products: %w", err)
	}
	materials, err := loader.LoadMaterials(files["Materials"])
	if err != nil {
		return nil, fmt.Errorf("error loading materials: %w", err)
	}
	lines, err := loader.LoadRecipes(files["Recipes"])
	if err != nil {
		return nil, fmt.Errorf("error loading recipes: %w", err)
	}

	c.logger.Info("catalog loaded",
		zap.Int("products", len(products)),
		zap.Int("materials", len(materials)),
		zap.Int("recipe_lines", len(lines)))

	var cat *catalog
	if c.config.Import {
		store, err := c.openStore(ctx)
		if err != nil {
			return nil, err
		}
		if err := store.Reset(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to clear sqlite catalog before import: %w", err)
		}
		cat = storeCatalog(store)
	} else {
		cat = &catalog{
			products:  memory.NewProductRepository(len(products)),
			materials: memory.NewMaterialRepository(len(materials)),
			recipes:   memory.NewRecipeRepository(len(lines)),
			close:     func() error { return nil },
		}
	}

	if err := cat.products.LoadProducts(ctx, products); err != nil {
		_ = cat.close()
		return nil, fmt.Errorf("failed to load products into repository: %w", err)
	}
	if err := cat.materials.LoadMaterials(ctx, materials); err != nil {
		_ = cat.close()
		return nil, fmt.Errorf("failed to load materials into repository: %w", err)
	}
	if err := cat.recipes.LoadRecipeLines(ctx, lines); err != nil {
		_ = cat.close()
		return nil, fmt.Errorf("failed to load recipes into repository: %w", err)
	}

	return cat, nil
}

func (c *PlanCommand) openSQLite(ctx context.Context) (*catalog, error) {
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	return storeCatalog(store), nil
}

func (c *PlanCommand) openStore(ctx context.Context) (*sqlite.Store, error) {
	store, err := sqlite.New(c.config.SQLitePath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate sqlite catalog: %w", err)
	}
	c.logger.Info("using sqlite catalog", zap.String("path", c.config.SQLitePath))
	return store, nil
}

func storeCatalog(store *sqlite.Store) *catalog {
	return &catalog{
		products:  store,
		materials: store,
		recipes:   store,
		close:     store.Close,
	}
}

// validateCatalog logs consistency warnings; they never stop planning
func (c *PlanCommand) validateCatalog(ctx context.Context, cat *catalog) error {
	products, err := cat.products.GetProductsByPriority(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}
	materials, err := cat.materials.GetAllMaterials(ctx)
	if err != nil {
		return fmt.Errorf("failed to list materials: %w", err)
	}
	lines, err := cat.recipes.GetAllRecipeLines(ctx)
	if err != nil {
		return fmt.Errorf("failed to list recipe lines: %w", err)
	}

	result := domainservices.NewCatalogValidator().ValidateCatalog(products, materials, lines)
	for _, warning := range result.Warnings {
		c.logger.Warn("catalog validation", zap.String("warning", warning))
	}
	return nil
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Fprintf(c.out, `Capacity Planner CLI - how much can be built from the stock on hand

USAGE:
    capacity -scenario <directory>                          # Plan from a scenario directory
    capacity -products <file> -materials <file> -recipes <file>
    capacity -sqlite <db>                                   # Plan from a SQLite catalog
    capacity -scenario <directory> -sqlite <db> -import     # Import CSVs into SQLite, then plan
    capacity generate -output <directory> [OPTIONS]         # Write a random scenario (see generate -help)

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -products <file>    Path to products CSV file
    -materials <file>   Path to materials CSV file
    -recipes <file>     Path to recipes CSV file
    -sqlite <file>      Path to SQLite catalog
    -import             Replace the SQLite catalog with the CSV inputs before planning
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── products.csv    # Products and unit prices
    ├── materials.csv   # Raw materials and stock on hand
    └── recipes.csv     # Required quantity of each material per product unit

CSV FILE FORMATS:

products.csv:
    id,code,name,unit_price
    TABLE,TB-01,Oak Table,450.00

materials.csv (empty stock = no stock record):
    id,code,name,stock
    OAK,OAK,Oak board,40.00

recipes.csv (empty required_qty = unusable line):
    product_id,material_id,required_qty
    TABLE,OAK,12

Products are planned in descending unit price order. Each product takes as many
whole units as its scarcest material allows before the next product is considered.
`)
}
