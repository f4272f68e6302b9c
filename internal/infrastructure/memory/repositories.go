package memory

import (
	"context"
	"sort"
	"time"

	"github.com/daninav123/resonaweb/internal/domain"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/domain/rental"
	"github.com/daninav123/resonaweb/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.PackRepository     = (*PackRepo)(nil)
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.PurchaseRepository = (*PurchaseRepo)(nil)
)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return copyProduct(p), nil
}

func (r *ProductRepo) GetManyForUpdate(_ context.Context, ids []string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	list := make([]*entity.Product, 0, len(sorted))
	for _, id := range sorted {
		if p, ok := r.s.products[id]; ok {
			list = append(list, copyProduct(p))
		}
	}
	return list, nil
}

func (r *ProductRepo) UpdatePrice(_ context.Context, id string, pricePerDay decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.PricePerDay = pricePerDay
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ProductRepo) IncrementStock(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock += delta
	p.RealStock += delta
	p.UpdatedAt = time.Now()
	return nil
}

// PackRepo packs en memoria.
type PackRepo struct{ s *Store }

func (r *PackRepo) GetByID(_ context.Context, id string) (*entity.Pack, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.packs[id]
	if !ok {
		return nil, nil
	}
	return copyPack(p), nil
}

func (r *PackRepo) ListAutoCalculate(_ context.Context) ([]*entity.Pack, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Pack
	for _, id := range sortedKeys(r.s.packs) {
		if p := r.s.packs[id]; p.AutoCalculate {
			list = append(list, copyPack(p))
		}
	}
	return list, nil
}

func (r *PackRepo) ListByProduct(_ context.Context, productID string) ([]*entity.Pack, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Pack
	for _, id := range sortedKeys(r.s.packs) {
		p := r.s.packs[id]
		for _, it := range p.Items {
			if it.ProductID == productID {
				list = append(list, copyPack(p))
				break
			}
		}
	}
	return list, nil
}

func (r *PackRepo) Update(_ context.Context, pack *entity.Pack) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.packs[pack.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.packs[pack.ID] = copyPack(pack)
	return nil
}

func (r *PackRepo) UpdatePrices(_ context.Context, pack *entity.Pack) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.packs[pack.ID]
	if !ok {
		return domain.ErrNotFound
	}
	p.BasePricePerDay = pack.BasePricePerDay
	p.PricePerDay = pack.PricePerDay
	p.UpdatedAt = pack.UpdatedAt
	return nil
}

// OrderRepo pedidos y líneas en memoria.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order.ID == "" {
		order.ID = newID()
	}
	if _, ok := r.s.orders[order.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.orders[order.ID] = copyOrder(order)
	for _, it := range order.Items {
		if it.ID == "" {
			it.ID = newID()
		}
		it.OrderID = order.ID
		c := *it
		c.OrderStatus = ""
		r.s.items = append(r.s.items, &c)
	}
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	out := copyOrder(o)
	for _, it := range r.s.items {
		if it.OrderID == id {
			c := *it
			c.OrderStatus = o.Status
			out.Items = append(out.Items, &c)
		}
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}

func (r *OrderRepo) ListReservations(_ context.Context, productID string, from, to time.Time) ([]*entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	from, to = rental.Day(from), rental.Day(to)
	var list []*entity.OrderItem
	for _, it := range r.s.items {
		if it.ProductID != productID {
			continue
		}
		o, ok := r.s.orders[it.OrderID]
		if !ok || o.Status == entity.OrderStatusCancelled {
			continue
		}
		if rental.Day(it.StartDate).After(to) || rental.Day(it.EndDate).Before(from) {
			continue
		}
		c := *it
		c.OrderStatus = o.Status
		list = append(list, &c)
	}
	return list, nil
}

// PurchaseRepo lotes de compra en memoria.
type PurchaseRepo struct{ s *Store }

func (r *PurchaseRepo) Create(_ context.Context, lot *entity.ProductPurchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if lot.ID == "" {
		lot.ID = newID()
	}
	c := *lot
	r.s.lots[lot.ID] = &c
	return nil
}

func (r *PurchaseRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductPurchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.ProductPurchase
	for _, id := range sortedKeys(r.s.lots) {
		if l := r.s.lots[id]; l.ProductID == productID {
			c := *l
			list = append(list, &c)
		}
	}
	rental.SortFIFO(list)
	return list, nil
}

func (r *PurchaseRepo) ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.ProductPurchase, error) {
	return r.ListByProduct(ctx, productID)
}

func (r *PurchaseRepo) UpdateAmortization(_ context.Context, lot *entity.ProductPurchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lots[lot.ID]
	if !ok {
		return domain.ErrNotFound
	}
	l.TotalGenerated = lot.TotalGenerated
	l.IsAmortized = lot.IsAmortized
	l.UpdatedAt = time.Now()
	return nil
}
