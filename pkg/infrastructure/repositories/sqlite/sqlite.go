package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/vsinha/capacity/pkg/domain/entities"
	"github.com/vsinha/capacity/pkg/domain/repositories"
)

// Store is a SQLite-backed catalog of products, materials and recipes
type Store struct {
	db *sql.DB
}

// Verify interface compliance
var (
	_ repositories.ProductRepository  = (*Store)(nil)
	_ repositories.MaterialRepository = (*Store)(nil)
	_ repositories.RecipeRepository   = (*Store)(nil)
)

// New opens (or creates) a SQLite catalog at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite catalog %s: %w", path, err)
	}

	// SQLite works best with a single connection for writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return Migrate(ctx, s.db)
}

// Ping verifies the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetProduct returns a product by id
func (s *Store) GetProduct(ctx context.Context, id entities.ProductID) (*entities.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, unit_price FROM products WHERE id = ?`, string(id))

	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return product, nil
}

// GetProductsByPriority returns products by descending unit price, ties by id.
// Prices are stored as text, so ordering happens on decimals after the read.
func (s *Store) GetProductsByPriority(ctx context.Context) ([]*entities.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, name, unit_price FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*entities.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].UnitPrice.GreaterThan(products[j].UnitPrice)
	})
	return products, nil
}

// LoadProducts upserts products in a single transaction
func (s *Store) LoadProducts(ctx context.Context, products []*entities.Product) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, p := range products {
			if p == nil {
				continue
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO products (id, code, name, unit_price) VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET code = excluded.code, name = excluded.name, unit_price = excluded.unit_price`,
				string(p.ID), p.Code, p.Name, p.UnitPrice)
			if err != nil {
				return fmt.Errorf("failed to save product %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// GetMaterial returns a material by id
func (s *Store) GetMaterial(ctx context.Context, id entities.MaterialID) (*entities.Material, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, code, name, stock FROM materials WHERE id = ?`, string(id))

	material, err := scanMaterial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("material %s: %w", id, repositories.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get material %s: %w", id, err)
	}
	return material, nil
}

// GetAllMaterials returns the full material snapshot ordered by id
func (s *Store) GetAllMaterials(ctx context.Context) ([]*entities.Material, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, code, name, stock FROM materials ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
	}
	defer rows.Close()

	var materials []*entities.Material
	for rows.Next() {
		material, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, material)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate materials: %w", err)
	}
	return materials, nil
}

// LoadMaterials upserts materials in a single transaction
func (s *Store) LoadMaterials(ctx context.Context, materials []*entities.Material) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, m := range materials {
			if m == nil {
				continue
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO materials (id, code, name, stock) VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET code = excluded.code, name = excluded.name, stock = excluded.stock`,
				string(m.ID), m.Code, m.Name, nullDecimal(m.Stock))
			if err != nil {
				return fmt.Errorf("failed to save material %s: %w", m.ID, err)
			}
		}
		return nil
	})
}

// GetRecipeLines returns a product's recipe lines in insertion order
func (s *Store) GetRecipeLines(ctx context.Context, productID entities.ProductID) ([]*entities.RecipeLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, material_id, required_qty FROM recipe_lines
		WHERE product_id = ? ORDER BY line_no`, string(productID))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe for %s: %w", productID, err)
	}
	defer rows.Close()

	return scanRecipeLines(rows)
}

// GetAllRecipeLines returns every recipe line in insertion order
func (s *Store) GetAllRecipeLines(ctx context.Context) ([]*entities.RecipeLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, material_id, required_qty FROM recipe_lines ORDER BY line_no`)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe lines: %w", err)
	}
	defer rows.Close()

	return scanRecipeLines(rows)
}

// LoadRecipeLines inserts recipe lines in a single transaction.
// A duplicate (product, material) pair fails the whole load.
func (s *Store) LoadRecipeLines(ctx context.Context, lines []*entities.RecipeLine) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, l := range lines {
			if l == nil {
				continue
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_lines (product_id, material_id, required_qty) VALUES (?, ?, ?)`,
				string(l.ProductID), string(l.MaterialID), nullDecimal(l.RequiredQty))
			if err != nil {
				return fmt.Errorf("failed to save recipe line %s/%s: %w", l.ProductID, l.MaterialID, err)
			}
		}
		return nil
	})
}

// Reset removes every product, material and recipe line from the catalog.
func (s *Store) Reset(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"recipe_lines", "materials", "products"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*entities.Product, error) {
	var (
		p  entities.Product
		id string
	)
	if err := row.Scan(&id, &p.Code, &p.Name, &p.UnitPrice); err != nil {
		return nil, err
	}
	p.ID = entities.ProductID(id)
	return &p, nil
}

func scanMaterial(row scanner) (*entities.Material, error) {
	var (
		m     entities.Material
		id    string
		stock decimal.NullDecimal
	)
	if err := row.Scan(&id, &m.Code, &m.Name, &stock); err != nil {
		return nil, err
	}
	m.ID = entities.MaterialID(id)
	if stock.Valid {
		m.Stock = &stock.Decimal
	}
	return &m, nil
}

func scanRecipeLines(rows *sql.Rows) ([]*entities.RecipeLine, error) {
	lines := []*entities.RecipeLine{}
	for rows.Next() {
		var (
			productID, materialID string
			qty                   decimal.NullDecimal
		)
		if err := rows.Scan(&productID, &materialID, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan recipe line: %w", err)
		}
		line := &entities.RecipeLine{
			ProductID:  entities.ProductID(productID),
			MaterialID: entities.MaterialID(materialID),
		}
		if qty.Valid {
			line.RequiredQty = &qty.Decimal
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe lines: %w", err)
	}
	return lines, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
