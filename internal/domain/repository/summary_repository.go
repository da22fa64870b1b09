package repository

import (
	"context"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// SummaryRepository define el puerto de inventory_summary (reemplazo completo por ejecución).
type SummaryRepository interface {
	Replace(ctx context.Context, rows []entity.SummaryRow) (int64, error)
	List(ctx context.Context) ([]entity.SummaryRow, error)
}
