package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/daninav123/resonaweb/internal/application/dto"
	"github.com/daninav123/resonaweb/internal/domain"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/domain/rental"
	"github.com/daninav123/resonaweb/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Config parámetros del cálculo de disponibilidad.
type Config struct {
	LeadTimeBypassDays int            // con más días de antelación se aprueba sin mirar stock
	Location           *time.Location // zona horaria de los días de calendario
	Now                func() time.Time
}

// Requirement unidades necesarias de un producto y el contador de stock contra el que se comparan.
type Requirement struct {
	ProductID string
	Quantity  int
	Source    StockSource
}

// StockSource elige qué contador de stock se compara con las reservas.
type StockSource int

const (
	NominalStock  StockSource = iota // Product.Stock (productos sueltos)
	PhysicalStock                    // Product.RealStock (componentes de pack)
	LowestStock                      // min(Stock, RealStock): pedido con el producto suelto y dentro de un pack
)

func (s StockSource) of(p *entity.Product) int {
	switch s {
	case PhysicalStock:
		return p.RealStock
	case LowestStock:
		if p.RealStock < p.Stock {
			return p.RealStock
		}
		return p.Stock
	default:
		return p.Stock
	}
}

// UseCase comprueba disponibilidad de productos y packs sobre el pool de conexiones.
type UseCase struct {
	productRepo repository.ProductRepository
	packRepo    repository.PackRepository
	orderRepo   repository.OrderRepository
	cfg         Config
	log         zerolog.Logger
}

// NewUseCase construye el caso de uso. LeadTimeBypassDays se usa tal cual (0 es válido);
// Location y Now vacíos toman UTC y time.Now.
func NewUseCase(
	productRepo repository.ProductRepository,
	packRepo repository.PackRepository,
	orderRepo repository.OrderRepository,
	cfg Config,
	log zerolog.Logger,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &UseCase{
		productRepo: productRepo,
		packRepo:    packRepo,
		orderRepo:   orderRepo,
		cfg:         cfg,
		log:         log,
	}
}

// Checker devuelve un comprobador atado a los repositorios indicados (p. ej. los de una transacción).
func (uc *UseCase) Checker(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *Checker {
	return &Checker{products: productRepo, orders: orderRepo, cfg: uc.cfg}
}

// CheckProduct comprueba si hay quantity unidades del producto libres cada día de [start, end].
func (uc *UseCase) CheckProduct(ctx context.Context, productID string, start, end time.Time, quantity int) (*dto.AvailabilityResponse, error) {
	res, err := uc.Checker(uc.productRepo, uc.orderRepo).Product(ctx, productID, start, end, quantity)
	if err != nil {
		return nil, err
	}
	if res.AutoApproved {
		uc.log.Info().Str("product_id", productID).Int("days_until_event", res.DaysUntilEvent).
			Msg("disponibilidad aprobada por antelación")
	}
	return res, nil
}

// CheckPack comprueba cada producto del pack con item.Quantity * quantity unidades.
// La regla de antelación se evalúa una sola vez con la fecha de inicio del pack.
func (uc *UseCase) CheckPack(ctx context.Context, packID string, start, end time.Time, quantity int) (*dto.AvailabilityResponse, error) {
	if packID == "" {
		return nil, domain.ErrInvalidInput
	}
	pack, err := uc.packRepo.GetByID(ctx, packID)
	if err != nil {
		return nil, err
	}
	if pack == nil {
		return nil, domain.ErrNotFound
	}
	res, err := uc.Checker(uc.productRepo, uc.orderRepo).Pack(ctx, pack, start, end, quantity)
	if err != nil {
		return nil, err
	}
	if res.AutoApproved {
		uc.log.Info().Str("pack_id", packID).Int("days_until_event", res.DaysUntilEvent).
			Msg("disponibilidad de pack aprobada por antelación")
	}
	return res, nil
}

// Checker ejecuta las comprobaciones contra un par concreto de repositorios.
type Checker struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	cfg      Config
}

// Product comprueba un producto suelto contra Product.Stock.
func (c *Checker) Product(ctx context.Context, productID string, start, end time.Time, quantity int) (*dto.AvailabilityResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	start, end, err := c.normalize(start, end, quantity)
	if err != nil {
		return nil, err
	}
	product, err := c.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	res := c.leadTime(start)
	if res.AutoApproved {
		return res, nil
	}
	shortage, err := c.shortage(ctx, product, product.Stock, quantity, start, end)
	if err != nil {
		return nil, err
	}
	if shortage != nil {
		res.Available = false
		res.Shortages = append(res.Shortages, *shortage)
	}
	return res, nil
}

// Pack comprueba todos los productos del pack contra Product.RealStock y recoge todos los que fallan.
func (c *Checker) Pack(ctx context.Context, pack *entity.Pack, start, end time.Time, quantity int) (*dto.AvailabilityResponse, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	reqs := make([]Requirement, 0, len(pack.Items))
	for _, item := range pack.Items {
		reqs = append(reqs, Requirement{ProductID: item.ProductID, Quantity: item.Quantity * quantity, Source: PhysicalStock})
	}
	return c.Requirements(ctx, reqs, start, end)
}

// Requirements comprueba varios productos a la vez para el mismo rango. Cada producto debe
// aparecer una sola vez, con la cantidad total pedida; la antelación se evalúa una vez.
func (c *Checker) Requirements(ctx context.Context, reqs []Requirement, start, end time.Time) (*dto.AvailabilityResponse, error) {
	start, end, err := c.normalize(start, end, 0)
	if err != nil {
		return nil, err
	}
	res := c.leadTime(start)
	if res.AutoApproved {
		return res, nil
	}
	for _, req := range reqs {
		if req.ProductID == "" || req.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := c.products.GetByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, req.ProductID)
		}
		shortage, err := c.shortage(ctx, product, req.Source.of(product), req.Quantity, start, end)
		if err != nil {
			return nil, err
		}
		if shortage != nil {
			res.Available = false
			res.Shortages = append(res.Shortages, *shortage)
		}
	}
	return res, nil
}

func (c *Checker) normalize(start, end time.Time, quantity int) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() || quantity < 0 {
		return start, end, domain.ErrInvalidInput
	}
	start, end = start.In(c.cfg.Location), end.In(c.cfg.Location)
	if rental.Day(end).Before(rental.Day(start)) {
		return start, end, domain.ErrInvalidInput
	}
	return start, end, nil
}

func (c *Checker) leadTime(start time.Time) *dto.AvailabilityResponse {
	days := rental.DaysUntil(c.cfg.Now(), start)
	return &dto.AvailabilityResponse{
		Available:      true,
		AutoApproved:   rental.BypassesStockCheck(days, c.cfg.LeadTimeBypassDays),
		DaysUntilEvent: days,
	}
}

func (c *Checker) shortage(ctx context.Context, product *entity.Product, stock, requested int, start, end time.Time) (*dto.ShortageDTO, error) {
	if requested == 0 {
		return nil, nil
	}
	reservations, err := c.orders.ListReservations(ctx, product.ID, rental.Day(start), rental.Day(end))
	if err != nil {
		return nil, fmt.Errorf("listar reservas: %w", err)
	}
	s := rental.FirstShortage(stock, requested, start, end, reservations)
	if s == nil {
		return nil, nil
	}
	return &dto.ShortageDTO{
		ProductID:   product.ID,
		ProductName: product.Name,
		Date:        s.Date,
		Requested:   requested,
		Stock:       stock,
		Reserved:    s.Reserved,
	}, nil
}
