package uomsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/inventario-sync/internal/application/uom"
)

var _ uom.RowWriter = (*CSVWriter)(nil)

// CSVWriter escribe filas UOM canónicas a CSV (salida del backfill de ASIN).
type CSVWriter struct{}

// NewCSVWriter construye el writer.
func NewCSVWriter() *CSVWriter { return &CSVWriter{} }

// WriteRows escribe a un temporal y lo renombra para no dejar archivos a medias.
func (w *CSVWriter) WriteRows(ctx context.Context, path string, rows []uom.SourceRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("crear directorio: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("crear %s: %w", tmp, err)
	}
	cw := csv.NewWriter(f)
	_ = cw.Write([]string{uom.ColASIN, uom.ColSKU, uom.ColFactor, uom.ColName})
	for _, r := range rows {
		_ = cw.Write([]string{r.ASIN, r.SellerSKU, r.Factor, r.ProductName})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("escribir csv: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("cerrar %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}
