// Package pdf genera el informe de amortización de un producto con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + ID       │  Fecha de emisión            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Invertido / Generado / Pendiente / % recuperado    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Proveedor | Uds | Coste | Generado | Estado  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 20, Green: 40, Blue: 90}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 60}
	colorHeader  = &props.Color{Red: 230, Green: 235, Blue: 245}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// AmortizationReport implementa amortization.ReportGenerator usando Maroto v2.
type AmortizationReport struct {
	now func() time.Time
}

// NewAmortizationReport construye el generador.
func NewAmortizationReport() *AmortizationReport { return &AmortizationReport{now: time.Now} }

// GenerateAmortizationReport genera el PDF y devuelve sus bytes.
func (g *AmortizationReport) GenerateAmortizationReport(
	_ context.Context,
	product *entity.Product,
	lots []*entity.ProductPurchase,
	summary *dto.AmortizationSummary,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Amortización "+product.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(lots) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin lotes de compra registrados.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	for _, r := range lotRows(lots) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(product *entity.Product, issued time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(product.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Producto: "+product.ID, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("INFORME DE AMORTIZACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+issued.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// summaryRow: cuatro cifras clave del producto.
func summaryRow(s *dto.AmortizationSummary) core.Row {
	cell := func(label, value string, c *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: c, Top: 6}),
		)
	}
	recovered := colorPrimary
	if s.Pending.IsZero() && s.TotalInvested.IsPositive() {
		recovered = colorGreen
	}
	return row.New(16).Add(
		cell("Invertido", formatMoney(s.TotalInvested), colorPrimary),
		cell("Generado", formatMoney(s.TotalGenerated), colorPrimary),
		cell("Pendiente", formatMoney(s.Pending), colorPrimary),
		cell(fmt.Sprintf("Recuperado (%d/%d lotes)", s.LotsAmortized, s.Lots), s.RecoveredPct.StringFixed(2)+" %", recovered),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Proveedor", 3, align.Left),
		h("Uds.", 1, align.Center),
		h("Coste", 2, align.Right),
		h("Generado", 2, align.Right),
		h("Estado", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

// lotRows: una fila por lote en orden FIFO.
func lotRows(lots []*entity.ProductPurchase) []core.Row {
	result := make([]core.Row, 0, len(lots))
	for _, l := range lots {
		status, c := "Pendiente", colorGray
		if l.IsAmortized {
			status, c = "Amortizado", colorGreen
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.PurchaseDate.Format("02/01/2006"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(l.Supplier, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatMoney(l.TotalCost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.TotalGenerated), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(status, props.Text{Size: 8, Align: align.Center, Top: 1, Color: c})),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney importe con puntos de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50 €"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac + " €"
}
