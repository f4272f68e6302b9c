package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/daninav123/resonaweb/internal/application/amortization"
	"github.com/daninav123/resonaweb/internal/application/availability"
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

// Config parámetros de reserva.
type Config struct {
	// LockBookings ejecuta comprobación y escritura en una transacción con las filas de producto
	// bloqueadas. Con false son dos pasos separados y dos peticiones simultáneas pueden sobre-reservar.
	LockBookings bool
	Location     *time.Location
	Now          func() time.Time
}

// UnavailableError se devuelve cuando alguna línea del pedido no tiene stock. Result trae el detalle.
type UnavailableError struct {
	Result *dto.AvailabilityResponse
}

func (e *UnavailableError) Error() string { return domain.ErrUnavailable.Error() }

func (e *UnavailableError) Unwrap() error { return domain.ErrUnavailable }

// OrderLine línea pedida: exactamente uno de ProductID o PackID.
type OrderLine struct {
	ProductID string
	PackID    string
	Quantity  int
}

// PlaceOrderInput datos de un pedido nuevo.
type PlaceOrderInput struct {
	CustomerID string
	StartDate  time.Time
	EndDate    time.Time
	Lines      []OrderLine
}

// InputFromRequest convierte el body HTTP en la entrada del caso de uso.
func InputFromRequest(customerID string, req dto.PlaceOrderRequest) PlaceOrderInput {
	in := PlaceOrderInput{CustomerID: customerID, StartDate: req.StartDate, EndDate: req.EndDate}
	for _, l := range req.Lines {
		in.Lines = append(in.Lines, OrderLine{ProductID: l.ProductID, PackID: l.PackID, Quantity: l.Quantity})
	}
	return in
}

// UseCase coloca, completa y cancela pedidos.
type UseCase struct {
	txRunner     ports.TxRunner
	productRepo  repository.ProductRepository
	packRepo     repository.PackRepository
	orderRepo    repository.OrderRepository
	availability *availability.UseCase
	amortization *amortization.UseCase
	cfg          Config
	log          zerolog.Logger
}

// NewUseCase construye el caso de uso de reservas.
func NewUseCase(
	txRunner ports.TxRunner,
	productRepo repository.ProductRepository,
	packRepo repository.PackRepository,
	orderRepo repository.OrderRepository,
	availabilityUC *availability.UseCase,
	amortizationUC *amortization.UseCase,
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
		txRunner:     txRunner,
		productRepo:  productRepo,
		packRepo:     packRepo,
		orderRepo:    orderRepo,
		availability: availabilityUC,
		amortization: amortizationUC,
		cfg:          cfg,
		log:          log,
	}
}

// PlaceOrder comprueba la disponibilidad de lo pedido y, si cabe, guarda el pedido en PENDING.
// Las unidades de un producto se suman entre todas las líneas (sueltas y dentro de packs)
// antes de compararlas con el stock.
func (uc *UseCase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*dto.OrderResponse, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	packs, err := uc.loadPacks(ctx, in.Lines)
	if err != nil {
		return nil, err
	}

	var out *dto.OrderResponse
	place := func(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) error {
		var err error
		out, err = uc.place(ctx, productRepo, orderRepo, in, packs)
		return err
	}
	if uc.cfg.LockBookings {
		err = uc.txRunner.Run(ctx, func(
			productRepo repository.ProductRepository,
			orderRepo repository.OrderRepository,
			_ repository.PurchaseRepository,
		) error {
			return place(productRepo, orderRepo)
		})
	} else {
		err = place(uc.productRepo, uc.orderRepo)
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *UseCase) place(
	ctx context.Context,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	in PlaceOrderInput,
	packs map[string]*entity.Pack,
) (*dto.OrderResponse, error) {
	products, err := uc.loadProducts(ctx, productRepo, productIDs(in.Lines, packs))
	if err != nil {
		return nil, err
	}

	checker := uc.availability.Checker(productRepo, orderRepo)
	result, err := checker.Requirements(ctx, requirements(in.Lines, packs), in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	if !result.Available {
		return nil, &UnavailableError{Result: result}
	}
	if result.AutoApproved {
		uc.log.Info().Str("customer_id", in.CustomerID).Int("days_until_event", result.DaysUntilEvent).
			Msg("reserva aprobada por antelación sin comprobar stock")
	}

	order := uc.buildOrder(in, products, packs)
	if err := orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("crear pedido: %w", err)
	}
	uc.log.Info().Str("order_id", order.ID).Int("items", len(order.Items)).Str("total", order.Total.String()).
		Msg("pedido creado")
	resp := toOrderResponse(order)
	resp.AutoApproved = result.AutoApproved
	return resp, nil
}

func (uc *UseCase) buildOrder(in PlaceOrderInput, products map[string]*entity.Product, packs map[string]*entity.Pack) *entity.Order {
	now := uc.cfg.Now()
	start := rental.Day(in.StartDate.In(uc.cfg.Location))
	end := rental.Day(in.EndDate.In(uc.cfg.Location))
	days := decimal.NewFromInt(int64(rental.RentalDays(start, end)))

	order := &entity.Order{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		Status:     entity.OrderStatusPending,
		StartDate:  start,
		EndDate:    end,
		Total:      decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	newItem := func(productID, packID string, qty int, perDay, total decimal.Decimal) {
		order.Items = append(order.Items, &entity.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   productID,
			PackID:      packID,
			Quantity:    qty,
			StartDate:   start,
			EndDate:     end,
			PricePerDay: perDay,
			TotalPrice:  total,
		})
		order.Total = order.Total.Add(total)
	}

	for _, line := range in.Lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		if line.PackID == "" {
			p := products[line.ProductID]
			newItem(p.ID, "", line.Quantity, p.PricePerDay, p.PricePerDay.Mul(qty).Mul(days))
			continue
		}
		// La línea del pack se reparte entre sus productos según precioDia * cantidad
		// para saber cuánto ingreso corresponde a cada uno.
		pack := packs[line.PackID]
		lineTotal := pack.FinalPrice().Mul(qty).Mul(days)
		weights := make([]decimal.Decimal, len(pack.Items))
		for i, item := range pack.Items {
			weights[i] = products[item.ProductID].PricePerDay.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		parts := rental.SplitRevenue(lineTotal, weights)
		for i, item := range pack.Items {
			newItem(item.ProductID, pack.ID, item.Quantity*line.Quantity, parts[i].Div(days).Round(2), parts[i])
		}
	}
	return order
}

// CompleteOrder marca el pedido COMPLETED e imputa el importe de sus líneas a los lotes de cada producto,
// todo en una transacción.
func (uc *UseCase) CompleteOrder(ctx context.Context, orderID string) (*dto.CompleteOrderResponse, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.CompleteOrderResponse
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		orderRepo repository.OrderRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		order, err := uc.transition(ctx, orderRepo, orderID, entity.OrderStatusCompleted)
		if err != nil {
			return err
		}

		revenue := map[string]decimal.Decimal{}
		for _, it := range order.Items {
			revenue[it.ProductID] = revenue[it.ProductID].Add(it.TotalPrice)
		}
		out = &dto.CompleteOrderResponse{Order: *toOrderResponse(order), Allocations: []dto.AllocationResponse{}}
		for productID, amount := range revenue {
			if !amount.IsPositive() {
				continue
			}
			alloc, err := uc.amortization.AllocateRevenueInTx(ctx, productRepo, purchaseRepo, amortization.AllocateRevenueInput{
				ProductID: productID,
				Revenue:   amount,
			})
			if err != nil {
				return fmt.Errorf("imputar ingresos de %s: %w", productID, err)
			}
			out.Allocations = append(out.Allocations, *alloc)
		}
		amortization.SortAllocations(out.Allocations)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Int("products", len(out.Allocations)).Msg("pedido completado")
	return out, nil
}

// CancelOrder marca el pedido CANCELLED; sus líneas dejan de reservar stock.
func (uc *UseCase) CancelOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.OrderResponse
	err := uc.txRunner.Run(ctx, func(
		_ repository.ProductRepository,
		orderRepo repository.OrderRepository,
		_ repository.PurchaseRepository,
	) error {
		order, err := uc.transition(ctx, orderRepo, orderID, entity.OrderStatusCancelled)
		if err != nil {
			return err
		}
		out = toOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Msg("pedido cancelado")
	return out, nil
}

// GetOrder devuelve el pedido con sus líneas.
func (uc *UseCase) GetOrder(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order), nil
}

func (uc *UseCase) transition(ctx context.Context, orderRepo repository.OrderRepository, orderID, status string) (*entity.Order, error) {
	order, err := orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !order.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrConflict, order.Status, status)
	}
	if err := orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status
	for _, it := range order.Items {
		it.OrderStatus = status
	}
	return order, nil
}

func (uc *UseCase) loadPacks(ctx context.Context, lines []OrderLine) (map[string]*entity.Pack, error) {
	packs := map[string]*entity.Pack{}
	for _, line := range lines {
		if line.PackID == "" || packs[line.PackID] != nil {
			continue
		}
		pack, err := uc.packRepo.GetByID(ctx, line.PackID)
		if err != nil {
			return nil, err
		}
		if pack == nil {
			return nil, fmt.Errorf("%w: pack %s", domain.ErrNotFound, line.PackID)
		}
		if !pack.IsActive || len(pack.Items) == 0 {
			return nil, fmt.Errorf("%w: pack %s no disponible", domain.ErrInvalidInput, line.PackID)
		}
		packs[line.PackID] = pack
	}
	return packs, nil
}

// loadProducts lee los productos implicados. Con LockBookings los bloquea en orden de id.
func (uc *UseCase) loadProducts(ctx context.Context, productRepo repository.ProductRepository, ids []string) (map[string]*entity.Product, error) {
	var list []*entity.Product
	if uc.cfg.LockBookings {
		var err error
		list, err = productRepo.GetManyForUpdate(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("bloquear productos: %w", err)
		}
	} else {
		for _, id := range ids {
			p, err := productRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if p != nil {
				list = append(list, p)
			}
		}
	}
	products := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		products[p.ID] = p
	}
	for _, id := range ids {
		if products[id] == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
	}
	return products, nil
}

func validate(in PlaceOrderInput) error {
	if in.CustomerID == "" || len(in.Lines) == 0 || in.StartDate.IsZero() || in.EndDate.IsZero() {
		return domain.ErrInvalidInput
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.ErrInvalidInput
	}
	for _, l := range in.Lines {
		if (l.ProductID == "") == (l.PackID == "") || l.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// requirements suma por producto las unidades de todas las líneas; un pack aporta
// item.Quantity * línea.Quantity de cada producto. Un producto pedido solo suelto se compara con
// Stock, solo en packs con RealStock y, si aparece de ambas formas, con el menor de los dos.
func requirements(lines []OrderLine, packs map[string]*entity.Pack) []availability.Requirement {
	type need struct {
		qty         int
		loose, pack bool
	}
	needs := map[string]*need{}
	add := func(productID string, qty int, inPack bool) {
		n := needs[productID]
		if n == nil {
			n = &need{}
			needs[productID] = n
		}
		n.qty += qty
		if inPack {
			n.pack = true
		} else {
			n.loose = true
		}
	}
	for _, l := range lines {
		if l.PackID == "" {
			add(l.ProductID, l.Quantity, false)
			continue
		}
		for _, item := range packs[l.PackID].Items {
			add(item.ProductID, item.Quantity*l.Quantity, true)
		}
	}

	reqs := make([]availability.Requirement, 0, len(needs))
	for _, id := range productIDs(lines, packs) {
		n := needs[id]
		source := availability.NominalStock
		switch {
		case n.loose && n.pack:
			source = availability.LowestStock
		case n.pack:
			source = availability.PhysicalStock
		}
		reqs = append(reqs, availability.Requirement{ProductID: id, Quantity: n.qty, Source: source})
	}
	return reqs
}

func productIDs(lines []OrderLine, packs map[string]*entity.Pack) []string {
	seen := map[string]bool{}
	for _, l := range lines {
		if l.PackID == "" {
			seen[l.ProductID] = true
			continue
		}
		for _, item := range packs[l.PackID].Items {
			seen[item.ProductID] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		StartDate:  o.StartDate,
		EndDate:    o.EndDate,
		RentalDays: rental.RentalDays(o.StartDate, o.EndDate),
		Total:      o.Total,
		Items:      make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			PackID:      it.PackID,
			Quantity:    it.Quantity,
			PricePerDay: it.PricePerDay,
			TotalPrice:  it.TotalPrice,
		})
	}
	return resp
}
