package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductPurchase lote de compra de un producto. TotalGenerated acumula los ingresos por alquiler
// imputados al lote; IsAmortized se activa cuando TotalGenerated alcanza TotalCost.
type ProductPurchase struct {
	ID             string
	ProductID      string
	Quantity       int
	UnitPrice      decimal.Decimal
	TotalCost      decimal.Decimal
	PurchaseDate   time.Time
	TotalGenerated decimal.Decimal
	IsAmortized    bool
	Supplier       string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Remaining coste pendiente de recuperar (nunca negativo).
func (p *ProductPurchase) Remaining() decimal.Decimal {
	r := p.TotalCost.Sub(p.TotalGenerated)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
