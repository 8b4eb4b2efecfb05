package guild

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepo persists orders in the pedidos table. Every mutation is a single
// conditional UPDATE so the precondition is re-checked by the store at the
// moment of the write; under two concurrent calls on the same order at most
// one matches.
type OrderRepo struct{ DB *pgxpool.Pool }

const orderColumns = `id, item_name, recipe_id, level, quality, cantidad,
	oficio_requerido, solicitante_id, COALESCE(asignado_a_id, ''), estatus, fecha_solicitud`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.ItemName, &o.RecipeID, &o.Level, &o.Quality,
		&o.Quantity, &o.Profession, &o.RequesterID, &o.AssigneeID, &o.Status, &o.RequestedAt)
	return o, err
}

func (r *OrderRepo) Insert(ctx context.Context, o Order) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO pedidos(id, item_name, recipe_id, level, quality, cantidad,
		                    oficio_requerido, solicitante_id, estatus, fecha_solicitud)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		o.ID, o.ItemName, o.RecipeID, o.Level, o.Quality, o.Quantity,
		o.Profession, o.RequesterID, o.Status, o.RequestedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Assign moves a not-yet-delivered order of the supervisor's profession to
// ASSIGNED with the given assignee. Re-assignment of an ASSIGNED or
// READY_FOR_PICKUP order is allowed; see DESIGN.md.
func (r *OrderRepo) Assign(ctx context.Context, orderID, profession, assigneeID string) (Order, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE pedidos
		SET estatus = $1, asignado_a_id = $4
		WHERE id = $2 AND oficio_requerido = $3 AND estatus <> $5
		RETURNING `+orderColumns,
		StatusAssigned, orderID, profession, assigneeID, StatusDelivered)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("assign order: %w", err)
	}
	return o, nil
}

// CompleteAs moves a matching order to READY_FOR_PICKUP. Supervisors may
// complete any not-yet-delivered order of their profession; workers only
// orders assigned to them and never their own request. When the order was
// still unassigned the caller is recorded as the assignee, so an order past
// PENDING always carries one.
func (r *OrderRepo) CompleteAs(ctx context.Context, orderID string, caller Actor) (Order, error) {
	q := `
		UPDATE pedidos
		SET estatus = $1, asignado_a_id = COALESCE(asignado_a_id, $4)
		WHERE id = $2 AND oficio_requerido = $3 AND estatus <> $5`
	args := []any{StatusReadyForPickup, orderID, caller.Profession, caller.ID, StatusDelivered}
	if !caller.IsSupervisor() {
		q += ` AND asignado_a_id = $4 AND solicitante_id <> $4`
	}
	q += ` RETURNING ` + orderColumns

	o, err := scanOrder(r.DB.QueryRow(ctx, q, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("complete order: %w", err)
	}
	return o, nil
}

// Deliver marks a READY_FOR_PICKUP order as DELIVERED, but only for its
// original requester.
func (r *OrderRepo) Deliver(ctx context.Context, orderID, requesterID string) (Order, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE pedidos
		SET estatus = $1
		WHERE id = $2 AND solicitante_id = $3 AND estatus = $4
		RETURNING `+orderColumns,
		StatusDelivered, orderID, requesterID, StatusReadyForPickup)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, fmt.Errorf("deliver order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) queryOrders(ctx context.Context, q string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListForProfession is the supervisor backlog: every not-yet-delivered order
// of the profession, most recent first.
func (r *OrderRepo) ListForProfession(ctx context.Context, profession string) ([]Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM pedidos
		WHERE estatus <> $1 AND oficio_requerido = $2
		ORDER BY fecha_solicitud DESC LIMIT 20`,
		StatusDelivered, profession)
}

// ListAssignedTo is the worker task list: open assignments only.
func (r *OrderRepo) ListAssignedTo(ctx context.Context, workerID string) ([]Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM pedidos
		WHERE asignado_a_id = $1 AND estatus IN ($2, $3)
		ORDER BY fecha_solicitud DESC LIMIT 20`,
		workerID, StatusAssigned, StatusReadyForPickup)
}

// ListRequestedBy returns the requester's own recent orders, any status.
func (r *OrderRepo) ListRequestedBy(ctx context.Context, requesterID string) ([]Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+` FROM pedidos
		WHERE solicitante_id = $1
		ORDER BY fecha_solicitud DESC LIMIT 10`,
		requesterID)
}

func (r *OrderRepo) Status(ctx context.Context, orderID string) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT estatus FROM pedidos WHERE id = $1`, orderID).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("order status: %w", err)
	}
	return Status(s), nil
}
