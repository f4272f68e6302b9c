package rental_test

import (
	"testing"
	"time"

	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/domain/rental"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lot(id, cost, generated string, purchased time.Time) *entity.ProductPurchase {
	l := &entity.ProductPurchase{
		ID:             id,
		ProductID:      "p1",
		TotalCost:      dec(cost),
		TotalGenerated: dec(generated),
		PurchaseDate:   purchased,
	}
	l.IsAmortized = l.TotalGenerated.GreaterThanOrEqual(l.TotalCost)
	return l
}

// ──────────────────────────────────────────────────────────────────────────────
// Reparto FIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocateRevenue_FIFO(t *testing.T) {
	lots := []*entity.ProductPurchase{
		lot("a", "100", "0", date(2025, 1, 1)),
		lot("b", "50", "0", date(2025, 6, 1)),
	}
	res := rental.AllocateRevenue(lots, dec("120"))

	assert.True(t, dec("100").Equal(lots[0].TotalGenerated))
	assert.True(t, lots[0].IsAmortized, "el lote más antiguo queda amortizado")
	assert.True(t, dec("20").Equal(lots[1].TotalGenerated))
	assert.False(t, lots[1].IsAmortized)
	assert.True(t, res.Overflow.IsZero())
	assert.True(t, dec("120").Equal(res.Allocated))
	require.Len(t, res.Allocations, 2)
}

func TestAllocateRevenue_SaltaLotesYaAmortizados(t *testing.T) {
	lots := []*entity.ProductPurchase{
		lot("a", "100", "100", date(2025, 1, 1)),
		lot("b", "50", "10", date(2025, 6, 1)),
	}
	res := rental.AllocateRevenue(lots, dec("15"))

	assert.True(t, dec("100").Equal(lots[0].TotalGenerated))
	assert.True(t, dec("25").Equal(lots[1].TotalGenerated))
	require.Len(t, res.Allocations, 1)
	assert.Equal(t, "b", res.Allocations[0].LotID)
}

func TestAllocateRevenue_ExcedenteAlUltimoLote(t *testing.T) {
	lots := []*entity.ProductPurchase{lot("a", "100", "100", date(2025, 1, 1))}
	res := rental.AllocateRevenue(lots, dec("30"))

	require.Len(t, lots, 1, "no se crean lotes nuevos")
	assert.True(t, dec("130").Equal(lots[0].TotalGenerated))
	assert.True(t, lots[0].IsAmortized)
	assert.True(t, dec("30").Equal(res.Overflow))
	require.Len(t, res.Allocations, 1)
	assert.True(t, res.Allocations[0].Overflow)
}

func TestAllocateRevenue_CompletaYDesbordaEnUnaLlamada(t *testing.T) {
	lots := []*entity.ProductPurchase{
		lot("a", "100", "90", date(2025, 1, 1)),
		lot("b", "50", "50", date(2025, 6, 1)),
	}
	res := rental.AllocateRevenue(lots, dec("25"))

	assert.True(t, dec("100").Equal(lots[0].TotalGenerated))
	assert.True(t, dec("65").Equal(lots[1].TotalGenerated), "el excedente (15) va al último lote")
	assert.True(t, dec("15").Equal(res.Overflow))
	require.Len(t, res.Allocations, 2)
	assert.True(t, dec("15").Equal(res.Allocations[1].OverflowAmount))
}

func TestAllocateRevenue_UltimoLoteCompletaYDesbordaEnUnaEntrada(t *testing.T) {
	lots := []*entity.ProductPurchase{
		lot("a", "100", "100", date(2025, 1, 1)),
		lot("b", "50", "40", date(2025, 6, 1)),
	}
	res := rental.AllocateRevenue(lots, dec("25"))

	assert.True(t, dec("65").Equal(lots[1].TotalGenerated))
	require.Len(t, res.Allocations, 1, "el lote b aparece una sola vez")
	got := res.Allocations[0]
	assert.Equal(t, "b", got.LotID)
	assert.True(t, dec("25").Equal(got.Amount), "10 pendientes + 15 de excedente")
	assert.True(t, dec("15").Equal(got.OverflowAmount))
	assert.True(t, got.Overflow)
	assert.True(t, got.Amortized)
	assert.True(t, dec("25").Equal(res.Allocated))
}

func TestAllocateRevenue_SinLotesNoHaceNada(t *testing.T) {
	res := rental.AllocateRevenue(nil, dec("30"))
	assert.Empty(t, res.Allocations)
	assert.True(t, res.Allocated.IsZero())
}

func TestAllocateRevenue_IngresoNoPositivo(t *testing.T) {
	lots := []*entity.ProductPurchase{lot("a", "100", "0", date(2025, 1, 1))}
	rental.AllocateRevenue(lots, decimal.Zero)
	rental.AllocateRevenue(lots, dec("-5"))
	assert.True(t, lots[0].TotalGenerated.IsZero())
}

func TestSortFIFO(t *testing.T) {
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	late := lot("late", "10", "0", date(2025, 3, 1))
	early := lot("early", "10", "0", date(2025, 1, 1))
	sameDay := lot("same-day-2", "10", "0", date(2025, 1, 1))
	early.CreatedAt = created
	sameDay.CreatedAt = created.Add(time.Hour)

	lots := []*entity.ProductPurchase{late, sameDay, early}
	rental.SortFIFO(lots)

	assert.Equal(t, []string{"early", "same-day-2", "late"}, []string{lots[0].ID, lots[1].ID, lots[2].ID})
}
