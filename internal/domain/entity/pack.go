package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackItem producto incluido en un pack y su cantidad por unidad de pack.
type PackItem struct {
	ProductID string
	Quantity  int
}

// Pack agrupa productos que se alquilan juntos.
// Con AutoCalculate el precio se deriva de los productos (BasePricePerDay, PricePerDay);
// sin él se usa CustomFinalPrice fijado por un administrador.
// TransportCost se guarda para logística y no entra en la fórmula de precio.
type Pack struct {
	ID                 string
	Name               string
	Description        string
	Items              []PackItem
	DiscountPercentage decimal.Decimal // 0..100
	PriceExtra         decimal.Decimal // extra fijo sumado antes del descuento
	TransportCost      decimal.Decimal
	AutoCalculate      bool
	CustomFinalPrice   *decimal.Decimal
	BasePricePerDay    decimal.Decimal
	PricePerDay        decimal.Decimal
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FinalPrice devuelve el precio diario vigente del pack.
func (p *Pack) FinalPrice() decimal.Decimal {
	if p.AutoCalculate {
		return p.PricePerDay
	}
	if p.CustomFinalPrice != nil {
		return *p.CustomFinalPrice
	}
	return decimal.Zero
}
