package uom

import "context"

// Table contenido crudo de la hoja UOM: cabecera y filas tal como vienen del archivo.
type Table struct {
	Header []string
	Rows   [][]string
}

// Source define el puerto de lectura del archivo tabular de factores (CSV o XLSX).
// Un archivo ilegible o sin la hoja pedida debe devolver error: sin factores no hay ejecución.
type Source interface {
	ReadTable(ctx context.Context) (*Table, error)
	Name() string
}

// RowWriter escribe filas UOM canónicas a un archivo (lo usa el backfill de ASIN).
type RowWriter interface {
	WriteRows(ctx context.Context, path string, rows []SourceRow) error
}
