package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido de alquiler.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

// Order cabecera de un pedido de alquiler.
type Order struct {
	ID         string
	CustomerID string
	Status     string
	StartDate  time.Time
	EndDate    time.Time
	Total      decimal.Decimal
	Items      []*OrderItem
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OrderItem línea de pedido: reserva Quantity unidades de un producto entre StartDate y EndDate (ambos inclusive).
// PackID se rellena cuando la línea proviene de la expansión de un pack.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	PackID      string
	Quantity    int
	StartDate   time.Time
	EndDate     time.Time
	PricePerDay decimal.Decimal
	TotalPrice  decimal.Decimal
	OrderStatus string // estado del pedido propietario (solo lectura, vía JOIN)
}

// Reserves indica si la línea cuenta como stock reservado (su pedido no está cancelado).
func (i *OrderItem) Reserves() bool {
	return i.OrderStatus != OrderStatusCancelled
}

// CanTransitionTo valida los cambios de estado permitidos del pedido.
func (o *Order) CanTransitionTo(status string) bool {
	switch status {
	case OrderStatusCompleted:
		return o.Status != OrderStatusCancelled && o.Status != OrderStatusCompleted
	case OrderStatusCancelled:
		return o.Status != OrderStatusCompleted && o.Status != OrderStatusCancelled
	default:
		return false
	}
}
