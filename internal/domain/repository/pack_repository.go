package repository

import (
	"context"

	"github.com/daninav123/resonaweb/internal/domain/entity"
)

// PackRepository define el puerto de persistencia para packs (cabecera + items).
type PackRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Pack, error)
	ListAutoCalculate(ctx context.Context) ([]*entity.Pack, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Pack, error)
	// Update reescribe cabecera e items del pack.
	Update(ctx context.Context, pack *entity.Pack) error
	// UpdatePrices actualiza solo los campos derivados del calculador.
	UpdatePrices(ctx context.Context, pack *entity.Pack) error
}
