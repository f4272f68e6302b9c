package repository

import (
	"context"

	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetManyForUpdate bloquea las filas de los productos (SELECT FOR UPDATE, orden por id).
	GetManyForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error)
	UpdatePrice(ctx context.Context, id string, pricePerDay decimal.Decimal) error
	// IncrementStock suma delta a stock y real_stock.
	IncrementStock(ctx context.Context, id string, delta int) error
}
