package rental

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PackPriceLine precio diario de un producto del pack y cuántas unidades incluye.
type PackPriceLine struct {
	PricePerDay decimal.Decimal
	Quantity    int
}

// PackPrice desglose del precio calculado de un pack.
type PackPrice struct {
	BasePrice           decimal.Decimal
	PriceBeforeDiscount decimal.Decimal
	DiscountAmount      decimal.Decimal
	FinalPrice          decimal.Decimal
}

// CalculatePackPrice aplica la fórmula del pack:
//
//	base      = Σ(precioDia * cantidad)
//	antes     = base + extra
//	descuento = antes * (porcentaje / 100)
//	final     = antes - descuento
//
// Solo se redondea (2 decimales) el descuento y el final, así recalcular con los mismos datos
// devuelve siempre el mismo importe.
func CalculatePackPrice(lines []PackPriceLine, priceExtra, discountPercentage decimal.Decimal) PackPrice {
	base := decimal.Zero
	for _, l := range lines {
		base = base.Add(l.PricePerDay.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	before := base.Add(priceExtra)
	discount := before.Mul(discountPercentage.Div(hundred)).Round(2)
	return PackPrice{
		BasePrice:           base,
		PriceBeforeDiscount: before,
		DiscountAmount:      discount,
		FinalPrice:          before.Sub(discount).Round(2),
	}
}

// SplitRevenue reparte total en proporción a weights (redondeo a 2 decimales).
// El resto por redondeo va a la última parte para que la suma sea exactamente total.
// Si todos los pesos son cero el reparto es a partes iguales.
func SplitRevenue(total decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	n := len(weights)
	if n == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(w)
	}
	parts := make([]decimal.Decimal, n)
	assigned := decimal.Zero
	for i := 0; i < n-1; i++ {
		var share decimal.Decimal
		if sum.IsZero() {
			share = total.Div(decimal.NewFromInt(int64(n))).Round(2)
		} else {
			share = total.Mul(weights[i]).Div(sum).Round(2)
		}
		parts[i] = share
		assigned = assigned.Add(share)
	}
	parts[n-1] = total.Sub(assigned)
	return parts
}
