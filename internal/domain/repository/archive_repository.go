package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// ArchiveRepository define el puerto del histórico inventory_snapshot_archive.
// El histórico es append-only: nunca sobrescribe ni falla por claves repetidas.
type ArchiveRepository interface {
	EnsureTable(ctx context.Context) error
	// ArchiveSnapshot copia el snapshot actual al histórico con ON CONFLICT DO NOTHING
	// y devuelve cuántas filas nuevas se insertaron.
	ArchiveSnapshot(ctx context.Context) (int64, error)
	// ListByDate filas archivadas de un día calendario (UTC).
	ListByDate(ctx context.Context, date time.Time) ([]entity.ArchiveRow, error)
}
