package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterPurchaseRequest body para POST /api/purchases.
type RegisterPurchaseRequest struct {
	ProductID    string          `json:"product_id"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Supplier     string          `json:"supplier"`
	Notes        string          `json:"notes"`
}

// PurchaseResponse salida de un lote de compra.
type PurchaseResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	PurchaseDate   time.Time       `json:"purchase_date"`
	TotalGenerated decimal.Decimal `json:"total_generated"`
	Pending        decimal.Decimal `json:"pending"`
	IsAmortized    bool            `json:"is_amortized"`
	Supplier       string          `json:"supplier"`
	Notes          string          `json:"notes"`
}

// AllocateRevenueRequest body para POST /api/amortization/allocate.
type AllocateRevenueRequest struct {
	ProductID     string          `json:"product_id"`
	RevenueAmount decimal.Decimal `json:"revenue_amount"`
}

// LotAllocationDTO importe imputado a un lote.
type LotAllocationDTO struct {
	LotID          string          `json:"lot_id"`
	Amount         decimal.Decimal `json:"amount"`
	OverflowAmount decimal.Decimal `json:"overflow_amount"`
	Overflow       bool            `json:"overflow"`
	Amortized      bool            `json:"amortized"`
}

// AllocationResponse resultado de imputar un ingreso a los lotes de un producto.
// NoLots=true cuando el producto no tiene lotes (no es un error).
type AllocationResponse struct {
	ProductID   string             `json:"product_id"`
	Revenue     decimal.Decimal    `json:"revenue"`
	Allocated   decimal.Decimal    `json:"allocated"`
	Overflow    decimal.Decimal    `json:"overflow"`
	NoLots      bool               `json:"no_lots"`
	Allocations []LotAllocationDTO `json:"allocations"`
}

// AmortizationSummary estado de recuperación de la inversión de un producto.
type AmortizationSummary struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Lots           int             `json:"lots"`
	LotsAmortized  int             `json:"lots_amortized"`
	UnitsPurchased int             `json:"units_purchased"`
	TotalInvested  decimal.Decimal `json:"total_invested"`
	TotalGenerated decimal.Decimal `json:"total_generated"`
	Pending        decimal.Decimal `json:"pending"`
	RecoveredPct   decimal.Decimal `json:"recovered_pct"`
}

// PurchaseImportRow fila leída de una hoja de lotes. Row es el número de fila (1 = cabecera).
type PurchaseImportRow struct {
	Row          int
	ProductID    string
	Quantity     int
	UnitPrice    decimal.Decimal
	PurchaseDate time.Time
	Supplier     string
	Notes        string
}

// ImportRowError fallo al registrar una fila importada.
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult resumen de una importación de lotes.
type ImportResult struct {
	Imported int              `json:"imported"`
	Failed   []ImportRowError `json:"failed"`
}
