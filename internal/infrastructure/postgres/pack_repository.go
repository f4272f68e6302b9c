package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/daninav123/resonaweb/internal/domain"
	"github.com/daninav123/resonaweb/internal/domain/entity"
	"github.com/daninav123/resonaweb/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var _ repository.PackRepository = (*PackRepo)(nil)

const packColumns = `id, name, description, discount_percentage, price_extra, transport_cost, auto_calculate,
	custom_final_price, base_price_per_day, price_per_day, is_active, created_at, updated_at`

// PackRepo packs y sus items sobre PostgreSQL.
type PackRepo struct {
	q Querier
}

// NewPackRepository construye el adaptador de packs. Pasar pool o tx (Querier).
func NewPackRepository(q Querier) *PackRepo {
	return &PackRepo{q: q}
}

// GetByID obtiene el pack con sus items.
func (r *PackRepo) GetByID(ctx context.Context, id string) (*entity.Pack, error) {
	p, err := scanPack(r.q.QueryRow(ctx, `SELECT `+packColumns+` FROM packs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pack: %w", err)
	}
	if err := r.attachItems(ctx, []*entity.Pack{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// ListAutoCalculate packs con precio derivado de sus productos.
func (r *PackRepo) ListAutoCalculate(ctx context.Context) ([]*entity.Pack, error) {
	return r.list(ctx, `SELECT `+packColumns+` FROM packs WHERE auto_calculate ORDER BY id`)
}

// ListByProduct packs que incluyen el producto.
func (r *PackRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Pack, error) {
	return r.list(ctx, `
		SELECT `+packColumns+` FROM packs
		WHERE id IN (SELECT pack_id FROM pack_items WHERE product_id = $1)
		ORDER BY id`, productID)
}

// Update reescribe cabecera e items del pack.
func (r *PackRepo) Update(ctx context.Context, pack *entity.Pack) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `
			UPDATE packs SET name = $2, description = $3, discount_percentage = $4, price_extra = $5,
				transport_cost = $6, auto_calculate = $7, custom_final_price = $8, is_active = $9, updated_at = now()
			WHERE id = $1`,
			pack.ID, pack.Name, pack.Description, pack.DiscountPercentage, pack.PriceExtra,
			pack.TransportCost, pack.AutoCalculate, nullDecimal(pack.CustomFinalPrice), pack.IsActive,
		)
		if err != nil {
			return fmt.Errorf("update pack: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pack_items WHERE pack_id = $1`, pack.ID); err != nil {
			return fmt.Errorf("delete pack items: %w", err)
		}
		for i, item := range pack.Items {
			_, err := tx.Exec(ctx,
				`INSERT INTO pack_items (pack_id, product_id, quantity, position) VALUES ($1, $2, $3, $4)`,
				pack.ID, item.ProductID, item.Quantity, i)
			if err != nil {
				if isForeignKeyViolation(err) {
					return fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
				}
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: producto %s repetido en el pack", domain.ErrInvalidInput, item.ProductID)
				}
				return fmt.Errorf("insert pack item: %w", err)
			}
		}
		return nil
	})
}

// UpdatePrices guarda solo los importes calculados.
func (r *PackRepo) UpdatePrices(ctx context.Context, pack *entity.Pack) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE packs SET base_price_per_day = $2, price_per_day = $3, updated_at = now() WHERE id = $1`,
		pack.ID, pack.BasePricePerDay, pack.PricePerDay)
	if err != nil {
		return fmt.Errorf("update pack prices: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PackRepo) list(ctx context.Context, sql string, args ...any) ([]*entity.Pack, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	var list []*entity.Pack
	for rows.Next() {
		p, err := scanPack(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pack: %w", err)
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packs: %w", err)
	}
	if err := r.attachItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachItems carga los items de todos los packs en una sola consulta.
func (r *PackRepo) attachItems(ctx context.Context, packs []*entity.Pack) error {
	if len(packs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Pack, len(packs))
	ids := make([]string, 0, len(packs))
	for _, p := range packs {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT pack_id, product_id, quantity FROM pack_items
		WHERE pack_id = ANY($1) ORDER BY pack_id, position, product_id`, ids)
	if err != nil {
		return fmt.Errorf("list pack items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var packID string
		var item entity.PackItem
		if err := rows.Scan(&packID, &item.ProductID, &item.Quantity); err != nil {
			return fmt.Errorf("scan pack item: %w", err)
		}
		if p := byID[packID]; p != nil {
			p.Items = append(p.Items, item)
		}
	}
	return rows.Err()
}

func scanPack(row pgx.Row) (*entity.Pack, error) {
	var p entity.Pack
	var custom decimal.NullDecimal
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.DiscountPercentage, &p.PriceExtra, &p.TransportCost,
		&p.AutoCalculate, &custom, &p.BasePricePerDay, &p.PricePerDay, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if custom.Valid {
		v := custom.Decimal
		p.CustomFinalPrice = &v
	}
	return &p, nil
}
