// Package export escribe el resumen de inventario a archivos planos.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/jhoicas/inventario-sync/internal/application/summary"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

var _ summary.Exporter = (*CSVExporter)(nil)

// SummaryHeader columnas del resumen, iguales a las de inventory_summary.
var SummaryHeader = []string{"country", "asin", "product_name", "quantity_on_hand"}

// CSVExporter resumen en CSV con cabecera.
type CSVExporter struct{}

// NewCSVExporter construye el exporter.
func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

// Format extensión del archivo.
func (e *CSVExporter) Format() string { return "csv" }

// Export escribe las filas en path.
func (e *CSVExporter) Export(ctx context.Context, path string, rows []entity.SummaryRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crear %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	_ = w.Write(SummaryHeader)
	for _, r := range rows {
		_ = w.Write([]string{r.Market, r.ASIN, r.ProductName, strconv.FormatInt(r.QuantityOnHand, 10)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("escribir csv: %w", err)
	}
	return f.Close()
}
