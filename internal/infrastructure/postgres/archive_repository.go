package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
)

var _ repository.ArchiveRepository = (*ArchiveRepo)(nil)

// ArchiveRepo histórico append-only de inventory_snapshot.
type ArchiveRepo struct {
	q Querier
	t Tables
}

// NewArchiveRepository construye el adaptador. Pasar pool o tx (Querier).
func NewArchiveRepository(q Querier, t Tables) *ArchiveRepo {
	return &ArchiveRepo{q: q, t: t}
}

// EnsureTable crea el histórico si no existe.
func (r *ArchiveRepo) EnsureTable(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, archiveTableDDL(r.t)); err != nil {
		return fmt.Errorf("ensure archive table: %w", err)
	}
	return nil
}

func (r *ArchiveRepo) archiveSQL() string {
	return fmt.Sprintf(`
		INSERT INTO %s (%s, snapshot_date)
		SELECT %s, (snapshot_timestamp AT TIME ZONE 'UTC')::date
		FROM %s
		ON CONFLICT (seller_sku, country, snapshot_timestamp) DO NOTHING`,
		r.t.Archive, snapshotColumns, snapshotColumns, r.t.Snapshot)
}

// ArchiveSnapshot copia el snapshot al histórico. Las claves ya archivadas se omiten.
func (r *ArchiveRepo) ArchiveSnapshot(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, r.archiveSQL())
	if err != nil {
		return 0, fmt.Errorf("archive inventory snapshot: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ArchiveRepo) listByDateSQL() string {
	return fmt.Sprintf(`
		SELECT %s, snapshot_date
		FROM %s
		WHERE snapshot_date = $1::date
		ORDER BY country, seller_sku, snapshot_timestamp`, snapshotColumns, r.t.Archive)
}

// ListByDate devuelve lo archivado para el día indicado. Sin histórico creado aún
// devuelve una lista vacía.
func (r *ArchiveRepo) ListByDate(ctx context.Context, date time.Time) ([]entity.ArchiveRow, error) {
	rows, err := r.q.Query(ctx, r.listByDateSQL(), date.UTC().Format("2006-01-02"))
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list inventory archive: %w", err)
	}
	defer rows.Close()

	var out []entity.ArchiveRow
	for rows.Next() {
		var a entity.ArchiveRow
		if err := rows.Scan(
			&a.SellerSKU, &a.Market, &a.SnapshotTimestamp,
			&a.Fulfillable, &a.Unfulfillable, &a.InboundWorking,
			&a.InboundShipped, &a.InboundReceived, &a.Reserved, &a.Total,
			&a.SnapshotDate,
		); err != nil {
			return nil, fmt.Errorf("scan inventory archive: %w", err)
		}
		a.SnapshotTimestamp = a.SnapshotTimestamp.UTC()
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory archive: %w", err)
	}
	return out, nil
}
