package guild

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepo reads the externally curated recipe catalog (items table).
// Pure projection queries, no business logic.
type CatalogRepo struct{ DB *pgxpool.Pool }

func (r *CatalogRepo) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT category FROM items ORDER BY category`)
}

func (r *CatalogRepo) Types(ctx context.Context, category string) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT type FROM items WHERE category = $1 ORDER BY type`, category)
}

func (r *CatalogRepo) distinct(ctx context.Context, q string, args ...any) ([]string, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("catalog scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) ByCategoryAndType(ctx context.Context, category, itemType string) ([]Recipe, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT recipe_id, name, category, type, profession, variations
		FROM items WHERE category = $1 AND type = $2 ORDER BY name`,
		category, itemType)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer rows.Close()

	var out []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) ByRecipeID(ctx context.Context, recipeID string) (Recipe, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT recipe_id, name, category, type, profession, variations
		FROM items WHERE recipe_id = $1`,
		recipeID)
	rec, err := scanRecipe(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Recipe{}, ErrNotFound
	}
	return rec, err
}

func scanRecipe(row pgx.Row) (Recipe, error) {
	var rec Recipe
	var variations []byte
	if err := row.Scan(&rec.RecipeID, &rec.Name, &rec.Category, &rec.Type, &rec.Profession, &variations); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Recipe{}, err
		}
		return Recipe{}, fmt.Errorf("catalog scan: %w", err)
	}
	if len(variations) > 0 {
		if err := json.Unmarshal(variations, &rec.Variations); err != nil {
			return Recipe{}, fmt.Errorf("decode variations for %s: %w", rec.RecipeID, err)
		}
	}
	return rec, nil
}
