package summary

import (
	"context"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// Exporter escribe el resumen a un archivo en un formato (csv, parquet, pdf).
type Exporter interface {
	Format() string
	Export(ctx context.Context, path string, rows []entity.SummaryRow) error
}
