package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// DefaultUpsertChunk filas por sentencia de upsert.
const DefaultUpsertChunk = 1000

const snapshotColumns = `seller_sku, country, snapshot_timestamp,
	fulfillable_quantity, unfulfillable_quantity, inbound_working_quantity,
	inbound_shipped_quantity, inbound_received_quantity, reserved_quantity, total_quantity`

// SnapshotRepo implementación de SnapshotRepository sobre PostgreSQL (usable con pool o tx).
type SnapshotRepo struct {
	q     Querier
	t     Tables
	chunk int
}

// NewSnapshotRepository construye el adaptador. chunk <= 0 usa DefaultUpsertChunk.
func NewSnapshotRepository(q Querier, t Tables, chunk int) *SnapshotRepo {
	if chunk <= 0 {
		chunk = DefaultUpsertChunk
	}
	return &SnapshotRepo{q: q, t: t, chunk: chunk}
}

func (r *SnapshotRepo) upsertSQL() string {
	return fmt.Sprintf(`
		INSERT INTO %s (%s)
		SELECT * FROM unnest(
			$1::text[], $2::text[], $3::timestamptz[],
			$4::bigint[], $5::bigint[], $6::bigint[], $7::bigint[], $8::bigint[], $9::bigint[], $10::bigint[]
		)
		ON CONFLICT (seller_sku, country, snapshot_timestamp) DO UPDATE SET
			fulfillable_quantity      = EXCLUDED.fulfillable_quantity,
			unfulfillable_quantity    = EXCLUDED.unfulfillable_quantity,
			inbound_working_quantity  = EXCLUDED.inbound_working_quantity,
			inbound_shipped_quantity  = EXCLUDED.inbound_shipped_quantity,
			inbound_received_quantity = EXCLUDED.inbound_received_quantity,
			reserved_quantity         = EXCLUDED.reserved_quantity,
			total_quantity            = EXCLUDED.total_quantity`, r.t.Snapshot, snapshotColumns)
}

// collapseSnapshotRows deja una fila por clave (la última) conservando el orden de
// primera aparición. Postgres no admite que un INSERT ... ON CONFLICT toque dos veces la misma fila.
func collapseSnapshotRows(rows []entity.SnapshotRow) []entity.SnapshotRow {
	pos := make(map[entity.SnapshotKey]int, len(rows))
	out := make([]entity.SnapshotRow, 0, len(rows))
	for _, row := range rows {
		row.SnapshotTimestamp = row.SnapshotTimestamp.UTC()
		k := row.Key()
		if i, ok := pos[k]; ok {
			out[i] = row
			continue
		}
		pos[k] = len(out)
		out = append(out, row)
	}
	return out
}

// snapshotArrays columnas en formato de arrays para unnest.
func snapshotArrays(rows []entity.SnapshotRow) []any {
	n := len(rows)
	skus := make([]string, n)
	markets := make([]string, n)
	stamps := make([]time.Time, n)
	cols := make([][]int64, 7)
	for i := range cols {
		cols[i] = make([]int64, n)
	}
	for i, row := range rows {
		skus[i] = row.SellerSKU
		markets[i] = row.Market
		stamps[i] = row.SnapshotTimestamp
		cols[0][i] = row.Fulfillable
		cols[1][i] = row.Unfulfillable
		cols[2][i] = row.InboundWorking
		cols[3][i] = row.InboundShipped
		cols[4][i] = row.InboundReceived
		cols[5][i] = row.Reserved
		cols[6][i] = row.Total
	}
	args := []any{skus, markets, stamps}
	for _, c := range cols {
		args = append(args, c)
	}
	return args
}

// Upsert inserta por bloques; ante conflicto de clave sobrescribe las siete cantidades.
func (r *SnapshotRepo) Upsert(ctx context.Context, rows []entity.SnapshotRow) (int, error) {
	rows = collapseSnapshotRows(rows)
	query := r.upsertSQL()
	total := 0
	for _, part := range chunks(rows, r.chunk) {
		tag, err := r.q.Exec(ctx, query, snapshotArrays(part)...)
		if err != nil {
			return total, fmt.Errorf("upsert inventory snapshot: %w", err)
		}
		total += int(tag.RowsAffected())
	}
	return total, nil
}

// ListAll lee el snapshot completo en orden estable.
func (r *SnapshotRepo) ListAll(ctx context.Context) ([]entity.SnapshotRow, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY seller_sku, country, snapshot_timestamp`, snapshotColumns, r.t.Snapshot)
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list inventory snapshot: %w", err)
	}
	defer rows.Close()

	var out []entity.SnapshotRow
	for rows.Next() {
		var s entity.SnapshotRow
		if err := rows.Scan(
			&s.SellerSKU, &s.Market, &s.SnapshotTimestamp,
			&s.Fulfillable, &s.Unfulfillable, &s.InboundWorking,
			&s.InboundShipped, &s.InboundReceived, &s.Reserved, &s.Total,
		); err != nil {
			return nil, fmt.Errorf("scan inventory snapshot: %w", err)
		}
		s.SnapshotTimestamp = s.SnapshotTimestamp.UTC()
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory snapshot: %w", err)
	}
	return out, nil
}

// Truncate vacía la tabla viva.
func (r *SnapshotRepo) Truncate(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, fmt.Sprintf(`TRUNCATE TABLE %s`, r.t.Snapshot)); err != nil {
		return fmt.Errorf("truncate inventory snapshot: %w", err)
	}
	return nil
}
