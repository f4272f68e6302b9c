package rental

import (
	"sort"

	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LotAllocation importe imputado a un lote en una llamada; cada lote aparece una sola vez.
// Amount incluye OverflowAmount, el excedente que cae en el último lote cuando todos quedan
// cubiertos. Overflow indica que OverflowAmount es positivo.
type LotAllocation struct {
	LotID          string
	Amount         decimal.Decimal
	OverflowAmount decimal.Decimal
	Overflow       bool
	Amortized      bool
}

// AllocationResult resultado de repartir un ingreso entre lotes.
type AllocationResult struct {
	Allocations []LotAllocation
	Allocated   decimal.Decimal // total imputado, excedente incluido
	Overflow    decimal.Decimal
}

// SortFIFO ordena los lotes del más antiguo al más reciente (purchase_date, created_at).
func SortFIFO(lots []*entity.ProductPurchase) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i], lots[j]
		if !a.PurchaseDate.Equal(b.PurchaseDate) {
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

// AllocateRevenue reparte revenue entre los lotes en el orden recibido (FIFO) modificándolos:
// cada lote con coste pendiente recibe min(restante, pendiente) y se marca amortizado al llegar
// a TotalCost. Si tras recorrer todos sobra ingreso, se suma al último lote como beneficio.
// Sin lotes o con revenue <= 0 no hace nada.
func AllocateRevenue(lots []*entity.ProductPurchase, revenue decimal.Decimal) AllocationResult {
	res := AllocationResult{Allocated: decimal.Zero, Overflow: decimal.Zero}
	if len(lots) == 0 || !revenue.IsPositive() {
		return res
	}
	left := revenue
	for _, lot := range lots {
		if !left.IsPositive() {
			break
		}
		pending := lot.Remaining()
		if !pending.IsPositive() {
			continue
		}
		amount := decimal.Min(left, pending)
		lot.TotalGenerated = lot.TotalGenerated.Add(amount)
		if lot.TotalGenerated.GreaterThanOrEqual(lot.TotalCost) {
			lot.IsAmortized = true
		}
		left = left.Sub(amount)
		res.Allocated = res.Allocated.Add(amount)
		res.Allocations = append(res.Allocations, LotAllocation{
			LotID:          lot.ID,
			Amount:         amount,
			OverflowAmount: decimal.Zero,
			Amortized:      lot.IsAmortized,
		})
	}
	if left.IsPositive() {
		last := lots[len(lots)-1]
		last.TotalGenerated = last.TotalGenerated.Add(left)
		last.IsAmortized = true
		res.Overflow = left
		res.Allocated = res.Allocated.Add(left)
		// Si el último lote acaba de recibir su parte, el excedente se suma a esa misma entrada.
		if n := len(res.Allocations); n > 0 && res.Allocations[n-1].LotID == last.ID {
			a := &res.Allocations[n-1]
			a.Amount = a.Amount.Add(left)
			a.OverflowAmount = left
			a.Overflow = true
			a.Amortized = true
		} else {
			res.Allocations = append(res.Allocations, LotAllocation{
				LotID:          last.ID,
				Amount:         left,
				OverflowAmount: left,
				Overflow:       true,
				Amortized:      true,
			})
		}
	}
	return res
}
