package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate runs all database migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		// Products table; unit_price is a decimal string
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			unit_price TEXT NOT NULL
		)`,

		// Materials table; a NULL stock means the value is absent
		`CREATE TABLE IF NOT EXISTS materials (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			stock TEXT
		)`,

		// Recipe lines; line_no keeps recipe order. Materials are not foreign keys:
		// a recipe may reference a material missing from the stock snapshot.
		`CREATE TABLE IF NOT EXISTS recipe_lines (
			line_no INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id TEXT NOT NULL,
			material_id TEXT NOT NULL,
			required_qty TEXT,
			UNIQUE (product_id, material_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_recipe_lines_product ON recipe_lines(product_id)`,
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
