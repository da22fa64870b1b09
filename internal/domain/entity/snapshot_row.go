package entity

import "time"

// SnapshotRow fila canónica de la tabla inventory_snapshot.
// Clave primaria: (SellerSKU, Market, SnapshotTimestamp). Las cantidades ya vienen
// convertidas con el factor UOM.
type SnapshotRow struct {
	SellerSKU         string    `json:"seller_sku"`
	Market            string    `json:"country"`
	SnapshotTimestamp time.Time `json:"snapshot_timestamp"`
	Quantities
}

// SnapshotKey identifica una fila del snapshot.
type SnapshotKey struct {
	SellerSKU string
	Market    string
	Timestamp time.Time
}

// Key devuelve la clave primaria de la fila (timestamp normalizado a UTC).
func (r SnapshotRow) Key() SnapshotKey {
	return SnapshotKey{SellerSKU: r.SellerSKU, Market: r.Market, Timestamp: r.SnapshotTimestamp.UTC()}
}

// ArchiveRow fila del histórico: la fila del snapshot más la fecha calendario (UTC).
type ArchiveRow struct {
	SnapshotRow
	SnapshotDate time.Time `json:"snapshot_date"`
}

// NewArchiveRow deriva la fecha de archivo a partir del timestamp.
func NewArchiveRow(r SnapshotRow) ArchiveRow {
	ts := r.SnapshotTimestamp.UTC()
	return ArchiveRow{
		SnapshotRow:  r,
		SnapshotDate: time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
	}
}
