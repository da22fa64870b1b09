package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
)

var _ repository.SummaryRepository = (*SummaryRepo)(nil)

var summaryColumns = []string{"country", "asin", "product_name", "quantity_on_hand"}

// SummaryRepo tabla inventory_summary, reemplazada completa en cada ejecución.
type SummaryRepo struct {
	q Querier
	t Tables
}

// NewSummaryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSummaryRepository(q Querier, t Tables) *SummaryRepo {
	return &SummaryRepo{q: q, t: t}
}

// Replace borra el resumen anterior y copia las filas nuevas (COPY).
// Debe correr dentro de una transacción para que nadie vea la tabla vacía.
func (r *SummaryRepo) Replace(ctx context.Context, rows []entity.SummaryRow) (int64, error) {
	if _, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, r.t.Summary)); err != nil {
		return 0, fmt.Errorf("clear inventory summary: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.q.CopyFrom(ctx,
		pgx.Identifier{r.t.Schema, "inventory_summary"},
		summaryColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			s := rows[i]
			return []any{s.Market, s.ASIN, s.ProductName, s.QuantityOnHand}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy inventory summary: %w", err)
	}
	return n, nil
}

// List devuelve el resumen vigente ordenado por mercado y ASIN.
func (r *SummaryRepo) List(ctx context.Context) ([]entity.SummaryRow, error) {
	query := fmt.Sprintf(`
		SELECT country, asin, product_name, quantity_on_hand
		FROM %s ORDER BY country, asin, product_name`, r.t.Summary)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list inventory summary: %w", err)
	}
	defer rows.Close()

	var out []entity.SummaryRow
	for rows.Next() {
		var s entity.SummaryRow
		if err := rows.Scan(&s.Market, &s.ASIN, &s.ProductName, &s.QuantityOnHand); err != nil {
			return nil, fmt.Errorf("scan inventory summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
