package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackItemDTO producto y cantidad dentro de un pack.
type PackItemDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PackResponse salida de un pack con sus precios derivados.
type PackResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Items              []PackItemDTO    `json:"items"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	PriceExtra         decimal.Decimal  `json:"price_extra"`
	TransportCost      decimal.Decimal  `json:"transport_cost"`
	AutoCalculate      bool             `json:"auto_calculate"`
	CustomFinalPrice   *decimal.Decimal `json:"custom_final_price,omitempty"`
	BasePricePerDay    decimal.Decimal  `json:"base_price_per_day"`
	PricePerDay        decimal.Decimal  `json:"price_per_day"`
	FinalPrice         decimal.Decimal  `json:"final_price"`
	IsActive           bool             `json:"is_active"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// UpdatePackRequest body para PATCH /api/packs/:id. Los campos nulos no se modifican.
type UpdatePackRequest struct {
	Name               *string          `json:"name"`
	Description        *string          `json:"description"`
	Items              []PackItemDTO    `json:"items"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	PriceExtra         *decimal.Decimal `json:"price_extra"`
	TransportCost      *decimal.Decimal `json:"transport_cost"`
	AutoCalculate      *bool            `json:"auto_calculate"`
	CustomFinalPrice   *decimal.Decimal `json:"custom_final_price"`
	IsActive           *bool            `json:"is_active"`
}

// UpdateProductPriceRequest body para PUT /api/products/:id/price.
type UpdateProductPriceRequest struct {
	PricePerDay decimal.Decimal `json:"price_per_day"`
}

// PackFailure pack que no se pudo recalcular en una operación masiva.
type PackFailure struct {
	PackID string `json:"pack_id"`
	Error  string `json:"error"`
}

// BulkRecalculateResponse resumen de un recálculo masivo (no es todo-o-nada).
type BulkRecalculateResponse struct {
	Updated int           `json:"updated"`
	Failed  []PackFailure `json:"failed"`
}
