package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/daninav123/resonaweb/internal/domain"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderItemColumns = `oi.id, oi.order_id, oi.product_id, COALESCE(oi.pack_id, ''), oi.quantity,
	oi.start_date, oi.end_date, oi.price_per_day, oi.total_price, o.status`

// OrderRepo pedidos y líneas sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta cabecera y líneas en un mismo bloque transaccional (savepoint si q ya es una tx).
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (id, customer_id, status, start_date, end_date, total, created_at, updated_at)
			VALUES ($1, $2, $3, $4::date, $5::date, $6, $7, $8)`,
			order.ID, order.CustomerID, order.Status, order.StartDate, order.EndDate,
			order.Total, order.CreatedAt, order.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert order: %w", err)
		}
		for _, it := range order.Items {
			_, err := tx.Exec(ctx, `
				INSERT INTO order_items (id, order_id, product_id, pack_id, quantity, start_date, end_date, price_per_day, total_price)
				VALUES ($1, $2, $3, $4, $5, $6::date, $7::date, $8, $9)`,
				it.ID, order.ID, it.ProductID, nullString(it.PackID), it.Quantity,
				it.StartDate, it.EndDate, it.PricePerDay, it.TotalPrice,
			)
			if err != nil {
				if isForeignKeyViolation(err) {
					return fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
				}
				return fmt.Errorf("insert order item: %w", err)
			}
		}
		return nil
	})
}

// GetByID obtiene el pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, `
		SELECT id, customer_id, status, start_date, end_date, total, created_at, updated_at
		FROM orders WHERE id = $1`, id).Scan(
		&o.ID, &o.CustomerID, &o.Status, &o.StartDate, &o.EndDate, &o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.queryItems(ctx, `
		SELECT `+orderItemColumns+`
		FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE oi.order_id = $1 ORDER BY oi.product_id, oi.id`, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListReservations líneas del producto de pedidos no cancelados cuyo rango solapa [from, to] (inclusivo).
func (r *OrderRepo) ListReservations(ctx context.Context, productID string, from, to time.Time) ([]*entity.OrderItem, error) {
	return r.queryItems(ctx, `
		SELECT `+orderItemColumns+`
		FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE oi.product_id = $1
		  AND o.status <> $2
		  AND oi.start_date <= $4::date
		  AND oi.end_date >= $3::date
		ORDER BY oi.start_date, oi.id`,
		productID, entity.OrderStatusCancelled, from, to)
}

func (r *OrderRepo) queryItems(ctx context.Context, sql string, args ...any) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.PackID, &it.Quantity,
			&it.StartDate, &it.EndDate, &it.PricePerDay, &it.TotalPrice, &it.OrderStatus); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
