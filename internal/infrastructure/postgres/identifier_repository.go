package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
)

var _ repository.IdentifierRepository = (*IdentifierRepo)(nil)

// IdentifierRepo tabla sku_identifier: ASIN observados por SKU y mercado.
type IdentifierRepo struct {
	q Querier
	t Tables
}

// NewIdentifierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIdentifierRepository(q Querier, t Tables) *IdentifierRepo {
	return &IdentifierRepo{q: q, t: t}
}

type identifierKey struct {
	sku, market, asin string
}

// Record guarda las observaciones; si ya existían se adelanta observed_at.
func (r *IdentifierRepo) Record(ctx context.Context, obs []entity.IdentifierObservation) (int, error) {
	if len(obs) == 0 {
		return 0, nil
	}
	seen := make(map[identifierKey]int, len(obs))
	var skus, markets, asins []string
	var stamps []time.Time
	for _, o := range obs {
		k := identifierKey{o.SellerSKU, o.Market, o.ASIN}
		if i, ok := seen[k]; ok {
			if o.ObservedAt.After(stamps[i]) {
				stamps[i] = o.ObservedAt
			}
			continue
		}
		seen[k] = len(skus)
		skus = append(skus, o.SellerSKU)
		markets = append(markets, o.Market)
		asins = append(asins, o.ASIN)
		stamps = append(stamps, o.ObservedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (seller_sku, country, asin, observed_at)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::timestamptz[])
		ON CONFLICT (seller_sku, country, asin) DO UPDATE SET
			observed_at = GREATEST(%s.observed_at, EXCLUDED.observed_at)`, r.t.Identifier, r.t.Identifier)
	tag, err := r.q.Exec(ctx, query, skus, markets, asins, stamps)
	if err != nil {
		return 0, fmt.Errorf("record sku identifiers: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// LatestBySKU ASIN más reciente por SKU (cualquier mercado).
func (r *IdentifierRepo) LatestBySKU(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf(`
		SELECT seller_sku, asin FROM (
			SELECT seller_sku, asin,
				ROW_NUMBER() OVER (PARTITION BY seller_sku ORDER BY observed_at DESC, asin) AS rn
			FROM %s
		) latest
		WHERE rn = 1`, r.t.Identifier)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("latest asin by sku: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var sku, asin string
		if err := rows.Scan(&sku, &asin); err != nil {
			return nil, fmt.Errorf("scan sku identifier: %w", err)
		}
		out[sku] = asin
	}
	return out, rows.Err()
}
