package pricing

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
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// UseCase recalcula el precio derivado de los packs (autoCalculate) y propaga cambios de precio.
type UseCase struct {
	packRepo    repository.PackRepository
	productRepo repository.ProductRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(packRepo repository.PackRepository, productRepo repository.ProductRepository, log zerolog.Logger) *UseCase {
	return &UseCase{packRepo: packRepo, productRepo: productRepo, log: log, now: time.Now}
}

// UpdatePackOptions cambios administrativos sobre un pack. Los punteros nulos no se tocan;
// Items nil mantiene los items actuales.
type UpdatePackOptions struct {
	Name               *string
	Description        *string
	Items              []entity.PackItem
	DiscountPercentage *decimal.Decimal
	PriceExtra         *decimal.Decimal
	TransportCost      *decimal.Decimal
	AutoCalculate      *bool
	CustomFinalPrice   *decimal.Decimal
	IsActive           *bool
}

// GetPack devuelve un pack con sus precios.
func (uc *UseCase) GetPack(ctx context.Context, packID string) (*dto.PackResponse, error) {
	pack, err := uc.packRepo.GetByID(ctx, packID)
	if err != nil {
		return nil, err
	}
	if pack == nil {
		return nil, domain.ErrNotFound
	}
	return ToPackResponse(pack), nil
}

// Recalculate recalcula y guarda el precio de un pack con autoCalculate.
// Si autoCalculate está desactivado el pack se devuelve sin cambios (manda CustomFinalPrice).
func (uc *UseCase) Recalculate(ctx context.Context, packID string) (*dto.PackResponse, error) {
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
	if err := uc.recalculate(ctx, pack); err != nil {
		return nil, err
	}
	return ToPackResponse(pack), nil
}

// RecalculateAll recalcula cada pack con autoCalculate de forma independiente.
// Un fallo en un pack se registra y se continúa con el siguiente; solo falla si no se puede listar.
func (uc *UseCase) RecalculateAll(ctx context.Context) (*dto.BulkRecalculateResponse, error) {
	packs, err := uc.packRepo.ListAutoCalculate(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar packs: %w", err)
	}
	res := uc.recalculateEach(ctx, packs)
	uc.log.Info().Int("updated", res.Updated).Int("failed", len(res.Failed)).Msg("recálculo masivo de packs")
	return res, nil
}

// RecalculateForProduct recalcula los packs con autoCalculate que contienen el producto.
func (uc *UseCase) RecalculateForProduct(ctx context.Context, productID string) (*dto.BulkRecalculateResponse, error) {
	packs, err := uc.packRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listar packs del producto: %w", err)
	}
	auto := packs[:0]
	for _, p := range packs {
		if p.AutoCalculate {
			auto = append(auto, p)
		}
	}
	return uc.recalculateEach(ctx, auto), nil
}

// UpdateProductPrice cambia el precio diario de un producto y recalcula los packs afectados.
func (uc *UseCase) UpdateProductPrice(ctx context.Context, productID string, pricePerDay decimal.Decimal) (*dto.BulkRecalculateResponse, error) {
	if productID == "" || pricePerDay.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.productRepo.UpdatePrice(ctx, productID, pricePerDay); err != nil {
		return nil, err
	}
	return uc.RecalculateForProduct(ctx, productID)
}

// UpdatePack aplica opts y, si el pack queda con autoCalculate, recalcula su precio.
func (uc *UseCase) UpdatePack(ctx context.Context, packID string, opts UpdatePackOptions) (*dto.PackResponse, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	pack, err := uc.packRepo.GetByID(ctx, packID)
	if err != nil {
		return nil, err
	}
	if pack == nil {
		return nil, domain.ErrNotFound
	}
	applyOptions(pack, opts)
	if !pack.AutoCalculate && pack.CustomFinalPrice == nil {
		return nil, fmt.Errorf("%w: sin cálculo automático se requiere precio final", domain.ErrInvalidInput)
	}
	pack.UpdatedAt = uc.now()
	if err := uc.packRepo.Update(ctx, pack); err != nil {
		return nil, err
	}
	if err := uc.recalculate(ctx, pack); err != nil {
		return nil, err
	}
	return ToPackResponse(pack), nil
}

func (uc *UseCase) recalculateEach(ctx context.Context, packs []*entity.Pack) *dto.BulkRecalculateResponse {
	res := &dto.BulkRecalculateResponse{Failed: []dto.PackFailure{}}
	for _, pack := range packs {
		if err := uc.recalculate(ctx, pack); err != nil {
			uc.log.Error().Err(err).Str("pack_id", pack.ID).Msg("recalcular precio de pack")
			res.Failed = append(res.Failed, dto.PackFailure{PackID: pack.ID, Error: err.Error()})
			continue
		}
		res.Updated++
	}
	return res
}

// recalculate aplica la fórmula y persiste BasePricePerDay/PricePerDay. No hace nada sin autoCalculate.
func (uc *UseCase) recalculate(ctx context.Context, pack *entity.Pack) error {
	if !pack.AutoCalculate {
		return nil
	}
	lines := make([]rental.PackPriceLine, 0, len(pack.Items))
	for _, item := range pack.Items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
		lines = append(lines, rental.PackPriceLine{PricePerDay: product.PricePerDay, Quantity: item.Quantity})
	}
	price := rental.CalculatePackPrice(lines, pack.PriceExtra, pack.DiscountPercentage)
	pack.BasePricePerDay = price.BasePrice
	pack.PricePerDay = price.FinalPrice
	pack.UpdatedAt = uc.now()
	if err := uc.packRepo.UpdatePrices(ctx, pack); err != nil {
		return fmt.Errorf("guardar precio del pack: %w", err)
	}
	return nil
}

func validateOptions(opts UpdatePackOptions) error {
	if d := opts.DiscountPercentage; d != nil && (d.IsNegative() || d.GreaterThan(hundred)) {
		return domain.ErrInvalidInput
	}
	for _, v := range []*decimal.Decimal{opts.PriceExtra, opts.TransportCost, opts.CustomFinalPrice} {
		if v != nil && v.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	if opts.Name != nil && *opts.Name == "" {
		return domain.ErrInvalidInput
	}
	for _, it := range opts.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func applyOptions(pack *entity.Pack, opts UpdatePackOptions) {
	if opts.Name != nil {
		pack.Name = *opts.Name
	}
	if opts.Description != nil {
		pack.Description = *opts.Description
	}
	if opts.Items != nil {
		pack.Items = append([]entity.PackItem(nil), opts.Items...)
	}
	if opts.DiscountPercentage != nil {
		pack.DiscountPercentage = *opts.DiscountPercentage
	}
	if opts.PriceExtra != nil {
		pack.PriceExtra = *opts.PriceExtra
	}
	if opts.TransportCost != nil {
		pack.TransportCost = *opts.TransportCost
	}
	if opts.AutoCalculate != nil {
		pack.AutoCalculate = *opts.AutoCalculate
	}
	if opts.CustomFinalPrice != nil {
		v := *opts.CustomFinalPrice
		pack.CustomFinalPrice = &v
	}
	if opts.IsActive != nil {
		pack.IsActive = *opts.IsActive
	}
}

// OptionsFromRequest adapta el body HTTP a UpdatePackOptions.
func OptionsFromRequest(in dto.UpdatePackRequest) UpdatePackOptions {
	opts := UpdatePackOptions{
		Name:               in.Name,
		Description:        in.Description,
		DiscountPercentage: in.DiscountPercentage,
		PriceExtra:         in.PriceExtra,
		TransportCost:      in.TransportCost,
		AutoCalculate:      in.AutoCalculate,
		CustomFinalPrice:   in.CustomFinalPrice,
		IsActive:           in.IsActive,
	}
	if in.Items != nil {
		opts.Items = make([]entity.PackItem, 0, len(in.Items))
		for _, it := range in.Items {
			opts.Items = append(opts.Items, entity.PackItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}
	}
	return opts
}

// ToPackResponse convierte la entidad en su DTO de salida.
func ToPackResponse(p *entity.Pack) *dto.PackResponse {
	if p == nil {
		return nil
	}
	items := make([]dto.PackItemDTO, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PackItemDTO{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &dto.PackResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Items:              items,
		DiscountPercentage: p.DiscountPercentage,
		PriceExtra:         p.PriceExtra,
		TransportCost:      p.TransportCost,
		AutoCalculate:      p.AutoCalculate,
		CustomFinalPrice:   p.CustomFinalPrice,
		BasePricePerDay:    p.BasePricePerDay,
		PricePerDay:        p.PricePerDay,
		FinalPrice:         p.FinalPrice(),
		IsActive:           p.IsActive,
		UpdatedAt:          p.UpdatedAt,
	}
}
