package repository

import (
	"context"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// SnapshotRepository define el puerto de la tabla viva inventory_snapshot (DIP).
type SnapshotRepository interface {
	// Upsert inserta las filas; ante conflicto de clave (SKU, mercado, timestamp)
	// sobrescribe las siete cantidades (último gana). Devuelve filas afectadas.
	Upsert(ctx context.Context, rows []entity.SnapshotRow) (int, error)
	// ListAll lee el snapshot completo en orden estable (SKU, mercado, timestamp).
	ListAll(ctx context.Context) ([]entity.SnapshotRow, error)
	// Truncate vacía el snapshot para el siguiente ciclo.
	Truncate(ctx context.Context) error
}
