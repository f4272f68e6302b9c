package repository

import (
	"context"

	"github.com/daninav123/resonaweb/internal/domain/entity"
)

// PurchaseRepository define el puerto para los lotes de compra (ProductPurchase).
type PurchaseRepository interface {
	Create(ctx context.Context, lot *entity.ProductPurchase) error
	// ListByProduct devuelve los lotes en orden FIFO (purchase_date, created_at).
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductPurchase, error)
	// ListByProductForUpdate igual que ListByProduct pero bloquea las filas (SELECT FOR UPDATE).
	ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.ProductPurchase, error)
	UpdateAmortization(ctx context.Context, lot *entity.ProductPurchase) error
}
