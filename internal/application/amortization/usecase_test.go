package amortization_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/daninav123/resonaweb/internal/application/amortization"
	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/daninav123/resonaweb/internal/domain"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/infrastructure/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

type fakeReport struct {
	summary *dto.AmortizationSummary
	lots    int
}

func (f *fakeReport) GenerateAmortizationReport(_ context.Context, _ *entity.Product, lots []*entity.ProductPurchase, s *dto.AmortizationSummary) ([]byte, error) {
	f.summary, f.lots = s, len(lots)
	return []byte("%PDF-fake"), nil
}

type fakeParser struct {
	rows []dto.PurchaseImportRow
	err  error
}

func (f *fakeParser) ParsePurchaseRows(io.Reader) ([]dto.PurchaseImportRow, error) {
	return f.rows, f.err
}

func setup(t *testing.T) (*amortization.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(&entity.Product{ID: "altavoz", Name: "Altavoz", Stock: 2, RealStock: 2, PricePerDay: dec("30")})
	uc := amortization.NewUseCase(store, store.Products(), store.Purchases(), &fakeReport{}, &fakeParser{}, zerolog.Nop())
	return uc, store
}

func addLot(store *memory.Store, id, cost, generated string, purchased time.Time) {
	l := &entity.ProductPurchase{
		ID:             id,
		ProductID:      "altavoz",
		Quantity:       1,
		UnitPrice:      dec(cost),
		TotalCost:      dec(cost),
		TotalGenerated: dec(generated),
		PurchaseDate:   purchased,
		CreatedAt:      purchased,
	}
	l.IsAmortized = l.TotalGenerated.GreaterThanOrEqual(l.TotalCost)
	store.AddLot(l)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterPurchase_CreaLoteYSumaStock(t *testing.T) {
	uc, store := setup(t)

	out, err := uc.RegisterPurchase(context.Background(), amortization.RegisterPurchaseInput{
		ProductID:    "altavoz",
		Quantity:     4,
		UnitPrice:    dec("125.50"),
		PurchaseDate: date(2025, 3, 1),
		Supplier:     "Audio SL",
	})
	require.NoError(t, err)
	assert.True(t, dec("502").Equal(out.TotalCost))
	assert.True(t, dec("502").Equal(out.Pending))
	assert.False(t, out.IsAmortized)

	p := store.Product("altavoz")
	assert.Equal(t, 6, p.Stock)
	assert.Equal(t, 6, p.RealStock)
	require.NotNil(t, store.Lot(out.ID))
}

func TestRegisterPurchase_ProductoInexistenteNoTocaNada(t *testing.T) {
	uc, store := setup(t)

	_, err := uc.RegisterPurchase(context.Background(), amortization.RegisterPurchaseInput{
		ProductID: "nada", Quantity: 1, UnitPrice: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 2, store.Product("altavoz").Stock)
}

func TestRegisterPurchase_Validaciones(t *testing.T) {
	uc, _ := setup(t)
	cases := []amortization.RegisterPurchaseInput{
		{ProductID: "", Quantity: 1, UnitPrice: dec("1")},
		{ProductID: "altavoz", Quantity: 0, UnitPrice: dec("1")},
		{ProductID: "altavoz", Quantity: 1, UnitPrice: dec("-1")},
	}
	for _, in := range cases {
		_, err := uc.RegisterPurchase(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Imputación de ingresos
// ──────────────────────────────────────────────────────────────────────────────

func TestAllocateRevenue_FIFOPersistido(t *testing.T) {
	uc, store := setup(t)
	addLot(store, "lote-nuevo", "50", "0", date(2025, 6, 1))
	addLot(store, "lote-viejo", "100", "0", date(2025, 1, 1))

	out, err := uc.AllocateRevenue(context.Background(), amortization.AllocateRevenueInput{
		ProductID: "altavoz", Revenue: dec("120"),
	})
	require.NoError(t, err)
	assert.False(t, out.NoLots)
	assert.True(t, dec("120").Equal(out.Allocated))
	assert.True(t, out.Overflow.IsZero())
	require.Len(t, out.Allocations, 2)
	assert.Equal(t, "lote-viejo", out.Allocations[0].LotID)

	viejo, nuevo := store.Lot("lote-viejo"), store.Lot("lote-nuevo")
	assert.True(t, dec("100").Equal(viejo.TotalGenerated))
	assert.True(t, viejo.IsAmortized)
	assert.True(t, dec("20").Equal(nuevo.TotalGenerated))
	assert.False(t, nuevo.IsAmortized)
}

func TestAllocateRevenue_ExcedenteAlUltimoLote(t *testing.T) {
	uc, store := setup(t)
	addLot(store, "unico", "100", "100", date(2025, 1, 1))

	out, err := uc.AllocateRevenue(context.Background(), amortization.AllocateRevenueInput{
		ProductID: "altavoz", Revenue: dec("30"),
	})
	require.NoError(t, err)
	assert.True(t, dec("30").Equal(out.Overflow))
	require.Len(t, out.Allocations, 1)
	assert.True(t, out.Allocations[0].Overflow)

	l := store.Lot("unico")
	assert.True(t, dec("130").Equal(l.TotalGenerated))
	assert.True(t, l.IsAmortized)
}

func TestAllocateRevenue_UltimoLoteApareceUnaVez(t *testing.T) {
	uc, store := setup(t)
	addLot(store, "lleno", "100", "100", date(2025, 1, 1))
	addLot(store, "ultimo", "50", "40", date(2025, 2, 1))

	out, err := uc.AllocateRevenue(context.Background(), amortization.AllocateRevenueInput{
		ProductID: "altavoz", Revenue: dec("25"),
	})
	require.NoError(t, err)
	require.Len(t, out.Allocations, 1)
	assert.Equal(t, "ultimo", out.Allocations[0].LotID)
	assert.True(t, dec("25").Equal(out.Allocations[0].Amount))
	assert.True(t, dec("15").Equal(out.Allocations[0].OverflowAmount))
	assert.True(t, dec("65").Equal(store.Lot("ultimo").TotalGenerated))
}

func TestAllocateRevenue_ConservaLaSuma(t *testing.T) {
	uc, store := setup(t)
	addLot(store, "a", "80", "10", date(2025, 1, 1))
	addLot(store, "b", "60", "0", date(2025, 2, 1))
	addLot(store, "c", "40", "40", date(2025, 3, 1))

	before := dec("50")
	_, err := uc.AllocateRevenue(context.Background(), amortization.AllocateRevenueInput{
		ProductID: "altavoz", Revenue: dec("200.35"),
	})
	require.NoError(t, err)

	after := store.Lot("a").TotalGenerated.Add(store.Lot("b").TotalGenerated).Add(store.Lot("c").TotalGenerated)
	assert.True(t, before.Add(dec("200.35")).Equal(after), "la suma generada crece exactamente en el ingreso")
	// 70 + 60 al pendiente, 70.35 de excedente al último lote.
	assert.True(t, dec("110.35").Equal(store.Lot("c").TotalGenerated))
}

func TestAllocateRevenue_SinLotesNoEsError(t *testing.T) {
	uc, _ := setup(t)

	out, err := uc.AllocateRevenue(context.Background(), amortization.AllocateRevenueInput{
		ProductID: "altavoz", Revenue: dec("10"),
	})
	require.NoError(t, err)
	assert.True(t, out.NoLots)
	assert.True(t, out.Allocated.IsZero())
	assert.Empty(t, out.Allocations)
}

func TestAllocateRevenue_Errores(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.AllocateRevenue(ctx, amortization.AllocateRevenueInput{ProductID: "altavoz", Revenue: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AllocateRevenue(ctx, amortization.AllocateRevenueInput{ProductID: "altavoz", Revenue: dec("-5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.AllocateRevenue(ctx, amortization.AllocateRevenueInput{ProductID: "nada", Revenue: dec("5")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas, informe e importación
// ──────────────────────────────────────────────────────────────────────────────

func TestSummary(t *testing.T) {
	uc, store := setup(t)
	addLot(store, "a", "100", "100", date(2025, 1, 1))
	addLot(store, "b", "300", "50", date(2025, 2, 1))

	s, err := uc.Summary(context.Background(), "altavoz")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Lots)
	assert.Equal(t, 1, s.LotsAmortized)
	assert.True(t, dec("400").Equal(s.TotalInvested))
	assert.True(t, dec("150").Equal(s.TotalGenerated))
	assert.True(t, dec("250").Equal(s.Pending))
	assert.True(t, dec("37.5").Equal(s.RecoveredPct))
}

func TestListLots_OrdenFIFO(t *testing.T) {
	uc, store := setup(t)
	addLot(store, "segundo", "10", "0", date(2025, 5, 1))
	addLot(store, "primero", "10", "0", date(2025, 1, 1))

	lots, err := uc.ListLots(context.Background(), "altavoz")
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.Equal(t, "primero", lots[0].ID)

	_, err = uc.ListLots(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportPDF(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(&entity.Product{ID: "altavoz", Name: "Altavoz"})
	addLot(store, "a", "100", "20", date(2025, 1, 1))
	report := &fakeReport{}
	uc := amortization.NewUseCase(store, store.Products(), store.Purchases(), report, nil, zerolog.Nop())

	pdf, name, err := uc.ReportPDF(context.Background(), "altavoz")
	require.NoError(t, err)
	assert.Equal(t, "amortizacion-altavoz.pdf", name)
	assert.Equal(t, "%PDF-fake", string(pdf))
	assert.Equal(t, 1, report.lots)
	assert.True(t, dec("80").Equal(report.summary.Pending))
}

func TestImportFromSheet_SigueTrasFilaErronea(t *testing.T) {
	store := memory.NewStore()
	store.AddProduct(&entity.Product{ID: "altavoz", Name: "Altavoz"})
	parser := &fakeParser{rows: []dto.PurchaseImportRow{
		{Row: 2, ProductID: "altavoz", Quantity: 2, UnitPrice: dec("10"), PurchaseDate: date(2025, 1, 1)},
		{Row: 3, ProductID: "desconocido", Quantity: 1, UnitPrice: dec("5")},
		{Row: 4, ProductID: "altavoz", Quantity: 1, UnitPrice: dec("7"), PurchaseDate: date(2025, 2, 1)},
	}}
	uc := amortization.NewUseCase(store, store.Products(), store.Purchases(), nil, parser, zerolog.Nop())

	res, err := uc.ImportFromSheet(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 3, res.Failed[0].Row)
	assert.Equal(t, 3, store.Product("altavoz").Stock)
}

func TestImportFromSheet_HojaIlegible(t *testing.T) {
	store := memory.NewStore()
	uc := amortization.NewUseCase(store, store.Products(), store.Purchases(), nil,
		&fakeParser{err: errors.New("falta la columna cantidad")}, zerolog.Nop())

	_, err := uc.ImportFromSheet(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
