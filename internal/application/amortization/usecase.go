package amortization

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/daninav123/resonaweb/internal/application/ports"
	"github.com/daninav123/resonaweb/internal/domain"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/domain/rental"
	"github.com/daninav123/resonaweb/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UseCase gestiona los lotes de compra y la imputación FIFO de ingresos por alquiler.
type UseCase struct {
	txRunner     ports.TxRunner
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	report       ReportGenerator
	parser       SheetParser
	log          zerolog.Logger
	now          func() time.Time
}

// NewUseCase construye el caso de uso. report y parser pueden ser nil si no se usan.
func NewUseCase(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	report ReportGenerator,
	parser SheetParser,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		report:       report,
		parser:       parser,
		log:          log,
		now:          time.Now,
	}
}

// RegisterPurchaseInput datos de un lote nuevo.
type RegisterPurchaseInput struct {
	ProductID    string
	Quantity     int
	UnitPrice    decimal.Decimal
	PurchaseDate time.Time // vacío = ahora
	Supplier     string
	Notes        string
}

// RegisterPurchase crea el lote (TotalCost = Quantity * UnitPrice) y suma las unidades al stock
// del producto en la misma transacción.
func (uc *UseCase) RegisterPurchase(ctx context.Context, in RegisterPurchaseInput) (*dto.PurchaseResponse, error) {
	if in.ProductID == "" || in.Quantity <= 0 || in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	if in.PurchaseDate.IsZero() {
		in.PurchaseDate = now
	}
	lot := &entity.ProductPurchase{
		ID:             uuid.New().String(),
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		UnitPrice:      in.UnitPrice,
		TotalCost:      in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity))),
		PurchaseDate:   in.PurchaseDate,
		TotalGenerated: decimal.Zero,
		Supplier:       in.Supplier,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// Un lote de coste 0 no tiene nada que recuperar.
	lot.IsAmortized = lot.TotalCost.IsZero()

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := purchaseRepo.Create(ctx, lot); err != nil {
			return err
		}
		return productRepo.IncrementStock(ctx, in.ProductID, in.Quantity)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(lot), nil
}

// AllocateRevenueInput ingreso a imputar a los lotes de un producto.
type AllocateRevenueInput struct {
	ProductID string
	Revenue   decimal.Decimal
}

// AllocateRevenue reparte el ingreso entre los lotes del producto en orden FIFO dentro de una transacción.
// Sin lotes registra un aviso y devuelve NoLots=true sin error.
func (uc *UseCase) AllocateRevenue(ctx context.Context, in AllocateRevenueInput) (*dto.AllocationResponse, error) {
	var out *dto.AllocationResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		var err error
		out, err = uc.AllocateRevenueInTx(ctx, productRepo, purchaseRepo, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AllocateRevenueInTx igual que AllocateRevenue pero con los repositorios de la transacción del caller.
func (uc *UseCase) AllocateRevenueInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	in AllocateRevenueInput,
) (*dto.AllocationResponse, error) {
	if in.ProductID == "" || !in.Revenue.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	product, err := productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	out := &dto.AllocationResponse{
		ProductID:   in.ProductID,
		Revenue:     in.Revenue,
		Allocated:   decimal.Zero,
		Overflow:    decimal.Zero,
		Allocations: []dto.LotAllocationDTO{},
	}

	lots, err := purchaseRepo.ListByProductForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("listar lotes: %w", err)
	}
	if len(lots) == 0 {
		uc.log.Warn().Str("product_id", in.ProductID).Str("revenue", in.Revenue.String()).
			Msg("producto sin lotes de compra, ingreso no imputado")
		out.NoLots = true
		return out, nil
	}

	rental.SortFIFO(lots)
	res := rental.AllocateRevenue(lots, in.Revenue)

	touched := make(map[string]bool, len(res.Allocations))
	for _, a := range res.Allocations {
		touched[a.LotID] = true
		out.Allocations = append(out.Allocations, dto.LotAllocationDTO{
			LotID:          a.LotID,
			Amount:         a.Amount,
			OverflowAmount: a.OverflowAmount,
			Overflow:       a.Overflow,
			Amortized:      a.Amortized,
		})
	}
	now := uc.now()
	for _, lot := range lots {
		if !touched[lot.ID] {
			continue
		}
		lot.UpdatedAt = now
		if err := purchaseRepo.UpdateAmortization(ctx, lot); err != nil {
			return nil, fmt.Errorf("actualizar lote %s: %w", lot.ID, err)
		}
	}
	out.Allocated = res.Allocated
	out.Overflow = res.Overflow

	uc.log.Info().Str("product_id", in.ProductID).Int("lots", len(touched)).
		Str("allocated", res.Allocated.String()).Str("overflow", res.Overflow.String()).
		Msg("ingreso imputado a lotes")
	return out, nil
}

// ListLots lotes del producto en orden FIFO.
func (uc *UseCase) ListLots(ctx context.Context, productID string) ([]dto.PurchaseResponse, error) {
	if _, err := uc.product(ctx, productID); err != nil {
		return nil, err
	}
	lots, err := uc.purchaseRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, *toPurchaseResponse(l))
	}
	return out, nil
}

// Summary resumen de inversión y recuperación del producto.
func (uc *UseCase) Summary(ctx context.Context, productID string) (*dto.AmortizationSummary, error) {
	product, err := uc.product(ctx, productID)
	if err != nil {
		return nil, err
	}
	lots, err := uc.purchaseRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return Summarize(product, lots), nil
}

// ReportPDF genera el informe PDF de amortización. Devuelve bytes y nombre de archivo.
func (uc *UseCase) ReportPDF(ctx context.Context, productID string) ([]byte, string, error) {
	if uc.report == nil {
		return nil, "", fmt.Errorf("generador de informes no configurado")
	}
	product, err := uc.product(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	lots, err := uc.purchaseRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.report.GenerateAmortizationReport(ctx, product, lots, Summarize(product, lots))
	if err != nil {
		return nil, "", fmt.Errorf("informe de amortización: %w", err)
	}
	return pdf, fmt.Sprintf("amortizacion-%s.pdf", product.ID), nil
}

// ImportFromSheet registra cada fila de la hoja como un lote. Una fila que falla se anota y se sigue.
func (uc *UseCase) ImportFromSheet(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	if uc.parser == nil {
		return nil, fmt.Errorf("lector de hojas no configurado")
	}
	rows, err := uc.parser.ParsePurchaseRows(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	res := &dto.ImportResult{Failed: []dto.ImportRowError{}}
	for _, row := range rows {
		_, err := uc.RegisterPurchase(ctx, RegisterPurchaseInput{
			ProductID:    row.ProductID,
			Quantity:     row.Quantity,
			UnitPrice:    row.UnitPrice,
			PurchaseDate: row.PurchaseDate,
			Supplier:     row.Supplier,
			Notes:        row.Notes,
		})
		if err != nil {
			uc.log.Error().Err(err).Int("row", row.Row).Str("product_id", row.ProductID).Msg("importar lote")
			res.Failed = append(res.Failed, dto.ImportRowError{Row: row.Row, Error: err.Error()})
			continue
		}
		res.Imported++
	}
	return res, nil
}

// Summarize agrega los lotes de un producto.
func Summarize(product *entity.Product, lots []*entity.ProductPurchase) *dto.AmortizationSummary {
	s := &dto.AmortizationSummary{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Lots:           len(lots),
		TotalInvested:  decimal.Zero,
		TotalGenerated: decimal.Zero,
		Pending:        decimal.Zero,
		RecoveredPct:   decimal.Zero,
	}
	for _, l := range lots {
		s.UnitsPurchased += l.Quantity
		s.TotalInvested = s.TotalInvested.Add(l.TotalCost)
		s.TotalGenerated = s.TotalGenerated.Add(l.TotalGenerated)
		s.Pending = s.Pending.Add(l.Remaining())
		if l.IsAmortized {
			s.LotsAmortized++
		}
	}
	if s.TotalInvested.IsPositive() {
		s.RecoveredPct = s.TotalGenerated.Div(s.TotalInvested).Mul(hundred).Round(2)
	}
	return s
}

func (uc *UseCase) product(ctx context.Context, productID string) (*entity.Product, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func toPurchaseResponse(l *entity.ProductPurchase) *dto.PurchaseResponse {
	return &dto.PurchaseResponse{
		ID:             l.ID,
		ProductID:      l.ProductID,
		Quantity:       l.Quantity,
		UnitPrice:      l.UnitPrice,
		TotalCost:      l.TotalCost,
		PurchaseDate:   l.PurchaseDate,
		TotalGenerated: l.TotalGenerated,
		Pending:        l.Remaining(),
		IsAmortized:    l.IsAmortized,
		Supplier:       l.Supplier,
		Notes:          l.Notes,
	}
}

// SortAllocations ordena las respuestas por producto (salida estable en pedidos con varios productos).
func SortAllocations(list []dto.AllocationResponse) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
}
