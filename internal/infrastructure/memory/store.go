// Package memory implementa los puertos de persistencia en memoria como doble de prueba para los
// tests de casos de uso y handlers. Run serializa las transacciones y deshace los cambios si fn falla.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/daninav123/resonaweb/internal/application/ports"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/domain/repository"
	"github.com/google/uuid"
)

var _ ports.TxRunner = (*Store)(nil)

// Store datos en memoria protegidos por mutex.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products map[string]*entity.Product
	packs    map[string]*entity.Pack
	orders   map[string]*entity.Order
	items    []*entity.OrderItem
	lots     map[string]*entity.ProductPurchase
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: map[string]*entity.Product{},
		packs:    map[string]*entity.Pack{},
		orders:   map[string]*entity.Order{},
		lots:     map[string]*entity.ProductPurchase{},
	}
}

// Products, Packs, Orders y Purchases devuelven los repositorios sobre el almacén.
func (s *Store) Products() *ProductRepo   { return &ProductRepo{s: s} }
func (s *Store) Packs() *PackRepo         { return &PackRepo{s: s} }
func (s *Store) Orders() *OrderRepo       { return &OrderRepo{s: s} }
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{s: s} }

// Run ejecuta fn en exclusión mutua con otras transacciones. Si fn devuelve error se restaura
// el estado previo.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(s.Products(), s.Orders(), s.Purchases()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	products map[string]*entity.Product
	packs    map[string]*entity.Pack
	orders   map[string]*entity.Order
	items    []*entity.OrderItem
	lots     map[string]*entity.ProductPurchase
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products: make(map[string]*entity.Product, len(s.products)),
		packs:    make(map[string]*entity.Pack, len(s.packs)),
		orders:   make(map[string]*entity.Order, len(s.orders)),
		items:    make([]*entity.OrderItem, 0, len(s.items)),
		lots:     make(map[string]*entity.ProductPurchase, len(s.lots)),
	}
	for k, v := range s.products {
		snap.products[k] = copyProduct(v)
	}
	for k, v := range s.packs {
		snap.packs[k] = copyPack(v)
	}
	for k, v := range s.orders {
		snap.orders[k] = copyOrder(v)
	}
	for _, it := range s.items {
		c := *it
		snap.items = append(snap.items, &c)
	}
	for k, v := range s.lots {
		c := *v
		snap.lots[k] = &c
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products, s.packs, s.orders, s.items, s.lots = snap.products, snap.packs, snap.orders, snap.items, snap.lots
}

// ── Semillas y lecturas directas (tests) ─────────────────────────────────────

// AddProduct inserta o reemplaza un producto.
func (s *Store) AddProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = copyProduct(p)
}

// AddPack inserta o reemplaza un pack.
func (s *Store) AddPack(p *entity.Pack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packs[p.ID] = copyPack(p)
}

// AddLot inserta o reemplaza un lote de compra.
func (s *Store) AddLot(l *entity.ProductPurchase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *l
	s.lots[l.ID] = &c
}

// AddOrder inserta un pedido con sus líneas.
func (s *Store) AddOrder(o *entity.Order) {
	_ = s.Orders().Create(context.Background(), o)
}

// Product devuelve una copia del producto o nil.
func (s *Store) Product(id string) *entity.Product {
	p, _ := s.Products().GetByID(context.Background(), id)
	return p
}

// Pack devuelve una copia del pack o nil.
func (s *Store) Pack(id string) *entity.Pack {
	p, _ := s.Packs().GetByID(context.Background(), id)
	return p
}

// Lot devuelve una copia del lote o nil.
func (s *Store) Lot(id string) *entity.ProductPurchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lots[id]
	if !ok {
		return nil
	}
	c := *l
	return &c
}

// Order devuelve una copia del pedido (con líneas) o nil.
func (s *Store) Order(id string) *entity.Order {
	o, _ := s.Orders().GetByID(context.Background(), id)
	return o
}

// OrderCount número de pedidos almacenados.
func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func copyPack(p *entity.Pack) *entity.Pack {
	c := *p
	c.Items = append([]entity.PackItem(nil), p.Items...)
	if p.CustomFinalPrice != nil {
		v := *p.CustomFinalPrice
		c.CustomFinalPrice = &v
	}
	return &c
}

func copyOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = nil
	return &c
}

func newID() string { return uuid.New().String() }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
