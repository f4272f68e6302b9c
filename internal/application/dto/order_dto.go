package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de pedido: exactamente uno de ProductID o PackID.
type OrderLineRequest struct {
	ProductID string `json:"product_id,omitempty"`
	PackID    string `json:"pack_id,omitempty"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest body para POST /api/orders.
type PlaceOrderRequest struct {
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Lines     []OrderLineRequest `json:"lines"`
}

// OrderItemResponse salida de una línea reservada.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	PackID      string          `json:"pack_id,omitempty"`
	Quantity    int             `json:"quantity"`
	PricePerDay decimal.Decimal `json:"price_per_day"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id"`
	Status       string              `json:"status"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `json:"end_date"`
	RentalDays   int                 `json:"rental_days"`
	Total        decimal.Decimal     `json:"total"`
	AutoApproved bool                `json:"auto_approved"`
	Items        []OrderItemResponse `json:"items"`
}

// CompleteOrderResponse pedido completado y los ingresos imputados por producto.
type CompleteOrderResponse struct {
	Order       OrderResponse        `json:"order"`
	Allocations []AllocationResponse `json:"allocations"`
}
