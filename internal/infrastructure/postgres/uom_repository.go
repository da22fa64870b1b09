package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
)

var _ repository.UOMRepository = (*UOMRepo)(nil)

// UOMRepo tabla product_uom: (master_sku = ASIN, seller_sku) -> factor.
type UOMRepo struct {
	q     Querier
	t     Tables
	chunk int
}

// NewUOMRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUOMRepository(q Querier, t Tables, chunk int) *UOMRepo {
	if chunk <= 0 {
		chunk = DefaultUpsertChunk
	}
	return &UOMRepo{q: q, t: t, chunk: chunk}
}

func (r *UOMRepo) upsertSQL() string {
	return fmt.Sprintf(`
		INSERT INTO %s (master_sku, seller_sku, uom_factor, product_name, updated_at)
		SELECT u.master_sku, u.seller_sku, u.uom_factor, NULLIF(u.product_name, ''), now()
		FROM unnest($1::text[], $2::text[], $3::numeric[], $4::text[])
			AS u(master_sku, seller_sku, uom_factor, product_name)
		ON CONFLICT (master_sku, seller_sku) DO UPDATE SET
			uom_factor   = EXCLUDED.uom_factor,
			product_name = COALESCE(EXCLUDED.product_name, %s.product_name),
			updated_at   = now()`, r.t.UOM, r.t.UOM)
}

func collapseUOMEntries(entries []entity.UOMEntry) []entity.UOMEntry {
	pos := make(map[entity.UOMKey]int, len(entries))
	out := make([]entity.UOMEntry, 0, len(entries))
	for _, e := range entries {
		if i, ok := pos[e.Key()]; ok {
			out[i] = e
			continue
		}
		pos[e.Key()] = len(out)
		out = append(out, e)
	}
	return out
}

// Upsert inserta o actualiza los factores. Un nombre vacío no pisa el guardado.
func (r *UOMRepo) Upsert(ctx context.Context, entries []entity.UOMEntry) (int, error) {
	entries = collapseUOMEntries(entries)
	query := r.upsertSQL()
	total := 0
	for _, part := range chunks(entries, r.chunk) {
		asins := make([]string, len(part))
		skus := make([]string, len(part))
		factors := make([]decimal.Decimal, len(part))
		names := make([]string, len(part))
		for i, e := range part {
			asins[i], skus[i], factors[i], names[i] = e.ASIN, e.SellerSKU, e.Factor, e.ProductName
		}
		tag, err := r.q.Exec(ctx, query, asins, skus, factors, names)
		if err != nil {
			return total, fmt.Errorf("upsert product_uom: %w", err)
		}
		total += int(tag.RowsAffected())
	}
	return total, nil
}

// ListAll lee el mapeo completo.
func (r *UOMRepo) ListAll(ctx context.Context) ([]entity.UOMEntry, error) {
	query := fmt.Sprintf(`
		SELECT master_sku, seller_sku, uom_factor, COALESCE(product_name, '')
		FROM %s ORDER BY seller_sku, master_sku`, r.t.UOM)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list product_uom: %w", err)
	}
	defer rows.Close()

	var out []entity.UOMEntry
	for rows.Next() {
		var e entity.UOMEntry
		if err := rows.Scan(&e.ASIN, &e.SellerSKU, &e.Factor, &e.ProductName); err != nil {
			return nil, fmt.Errorf("scan product_uom: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list product_uom: %w", err)
	}
	return out, nil
}
