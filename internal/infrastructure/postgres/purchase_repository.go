package postgres

import (
	"context"
	"fmt"

	"github.com/daninav123/resonaweb/internal/domain"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, product_id, quantity, unit_price, total_cost, purchase_date, total_generated,
	is_amortized, supplier, notes, created_at, updated_at`

// PurchaseRepo lotes de compra sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta un lote.
func (r *PurchaseRepo) Create(ctx context.Context, lot *entity.ProductPurchase) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_purchases (`+purchaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		lot.ID, lot.ProductID, lot.Quantity, lot.UnitPrice, lot.TotalCost, lot.PurchaseDate, lot.TotalGenerated,
		lot.IsAmortized, lot.Supplier, lot.Notes, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// ListByProduct lotes en orden FIFO.
func (r *PurchaseRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductPurchase, error) {
	return r.list(ctx, `SELECT `+purchaseColumns+` FROM product_purchases
		WHERE product_id = $1 ORDER BY purchase_date, created_at, id`, productID)
}

// ListByProductForUpdate igual que ListByProduct bloqueando las filas hasta el fin de la tx.
func (r *PurchaseRepo) ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.ProductPurchase, error) {
	return r.list(ctx, `SELECT `+purchaseColumns+` FROM product_purchases
		WHERE product_id = $1 ORDER BY purchase_date, created_at, id FOR UPDATE`, productID)
}

// UpdateAmortization guarda total_generated e is_amortized.
func (r *PurchaseRepo) UpdateAmortization(ctx context.Context, lot *entity.ProductPurchase) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_purchases SET total_generated = $2, is_amortized = $3, updated_at = $4
		WHERE id = $1`,
		lot.ID, lot.TotalGenerated, lot.IsAmortized, lot.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase amortization: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseRepo) list(ctx context.Context, sql string, args ...any) ([]*entity.ProductPurchase, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductPurchase
	for rows.Next() {
		var l entity.ProductPurchase
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.TotalCost, &l.PurchaseDate,
			&l.TotalGenerated, &l.IsAmortized, &l.Supplier, &l.Notes, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
