package repository

import (
	"context"
	"time"

	"github.com/daninav123/resonaweb/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// ListReservations devuelve las líneas del producto cuyo rango [start_date, end_date] solapa [from, to]
	// y cuyo pedido no está cancelado. OrderStatus viene relleno.
	ListReservations(ctx context.Context, productID string, from, to time.Time) ([]*entity.OrderItem, error)
}
