package guild

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo only exists for the health probe: a cheap count over the usuarios
// table proves the store answers queries, not just pings.
type UserRepo struct{ DB *pgxpool.Pool }

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM usuarios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
