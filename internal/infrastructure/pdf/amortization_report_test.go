package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0,00 €",
		"12.5":      "12,50 €",
		"1234":      "1.234,00 €",
		"1234567.5": "1.234.567,50 €",
		"-980.129":  "-980,13 €",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateAmortizationReport_DevuelvePDF(t *testing.T) {
	g := NewAmortizationReport()
	product := &entity.Product{ID: "altavoz", Name: "Altavoz autoamplificado"}
	lots := []*entity.ProductPurchase{
		{ID: "a", Quantity: 2, TotalCost: decimal.NewFromInt(400), TotalGenerated: decimal.NewFromInt(400),
			IsAmortized: true, Supplier: "Audio SL", PurchaseDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{ID: "b", Quantity: 1, TotalCost: decimal.NewFromInt(250), TotalGenerated: decimal.NewFromInt(75),
			PurchaseDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
	}
	summary := &dto.AmortizationSummary{
		ProductID: "altavoz", Lots: 2, LotsAmortized: 1,
		TotalInvested: decimal.NewFromInt(650), TotalGenerated: decimal.NewFromInt(475),
		Pending: decimal.NewFromInt(175), RecoveredPct: decimal.RequireFromString("73.08"),
	}

	out, err := g.GenerateAmortizationReport(context.Background(), product, lots, summary)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateAmortizationReport_SinLotes(t *testing.T) {
	g := NewAmortizationReport()
	summary := &dto.AmortizationSummary{ProductID: "micro"}

	out, err := g.GenerateAmortizationReport(context.Background(), &entity.Product{ID: "micro", Name: "Micro"}, nil, summary)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
