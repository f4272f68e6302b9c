package amortization

import (
	"context"
	"io"

	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/daninav123/resonaweb/internal/domain/entity"
)

// ReportGenerator genera el informe PDF de amortización de un producto.
type ReportGenerator interface {
	GenerateAmortizationReport(
		ctx context.Context,
		product *entity.Product,
		lots []*entity.ProductPurchase,
		summary *dto.AmortizationSummary,
	) ([]byte, error)
}

// SheetParser lee filas de lotes de compra desde una hoja de cálculo.
type SheetParser interface {
	ParsePurchaseRows(r io.Reader) ([]dto.PurchaseImportRow, error)
}
