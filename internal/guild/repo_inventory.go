package guild

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdjustResult string

const (
	AdjustSuccess AdjustResult = "SUCCESS"
	AdjustDeleted AdjustResult = "DELETED"
)

// InventoryRepo keeps the stock ledger in the inventario table. Persisted
// quantity is always > 0: any write that lands at zero or below removes the
// row.
type InventoryRepo struct{ DB *pgxpool.Pool }

// Adjust adds delta (negative for withdrawals) to an item's quantity,
// creating the entry when absent. Returns the remaining quantity, or
// AdjustDeleted when the entry dropped to zero or below and was removed.
func (r *InventoryRepo) Adjust(ctx context.Context, itemName string, delta int) (AdjustResult, int, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", 0, fmt.Errorf("adjust inventory: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var qty int
	err = tx.QueryRow(ctx, `
		INSERT INTO inventario(name, quantity) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET quantity = inventario.quantity + EXCLUDED.quantity
		RETURNING quantity`,
		itemName, delta).Scan(&qty)
	if err != nil {
		return "", 0, fmt.Errorf("adjust inventory: %w", err)
	}

	result := AdjustSuccess
	if qty <= 0 {
		// quantity is re-checked in the filter so a concurrent top-up
		// between the two statements keeps the row alive
		if _, err := tx.Exec(ctx, `DELETE FROM inventario WHERE name = $1 AND quantity <= 0`, itemName); err != nil {
			return "", 0, fmt.Errorf("adjust inventory: %w", err)
		}
		result, qty = AdjustDeleted, 0
	}
	if err := tx.Commit(ctx); err != nil {
		return "", 0, fmt.Errorf("adjust inventory: %w", err)
	}
	return result, qty, nil
}

// SetExact pins an item's quantity to the given value. Zero or below removes
// the entry. Rejecting negative input is the caller's contract, not ours.
func (r *InventoryRepo) SetExact(ctx context.Context, itemName string, newQuantity int) (AdjustResult, error) {
	if newQuantity <= 0 {
		if _, err := r.DB.Exec(ctx, `DELETE FROM inventario WHERE name = $1`, itemName); err != nil {
			return "", fmt.Errorf("set inventory: %w", err)
		}
		return AdjustDeleted, nil
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO inventario(name, quantity) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET quantity = EXCLUDED.quantity`,
		itemName, newQuantity)
	if err != nil {
		return "", fmt.Errorf("set inventory: %w", err)
	}
	return AdjustSuccess, nil
}

func (r *InventoryRepo) ListAll(ctx context.Context) ([]InventoryEntry, error) {
	rows, err := r.DB.Query(ctx, `SELECT name, quantity FROM inventario ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []InventoryEntry
	for rows.Next() {
		var e InventoryEntry
		if err := rows.Scan(&e.Name, &e.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SearchNames powers selection assist: case-insensitive prefix match capped
// at 25 names. With onlyInStock it searches the ledger, otherwise the full
// recipe catalog.
func (r *InventoryRepo) SearchNames(ctx context.Context, query string, onlyInStock bool) ([]string, error) {
	pattern := escapeLike(query) + "%"
	q := `SELECT DISTINCT name FROM items WHERE name ILIKE $1 ORDER BY name LIMIT 25`
	if onlyInStock {
		q = `SELECT name FROM inventario WHERE name ILIKE $1 ORDER BY name LIMIT 25`
	}
	rows, err := r.DB.Query(ctx, q, pattern)
	if err != nil {
		return nil, fmt.Errorf("search inventory: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
