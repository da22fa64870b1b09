package export

import (
	"fmt"

	"github.com/jhoicas/inventario-sync/internal/application/summary"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/pdf"
)

// FromFormats construye los exporters pedidos (csv, parquet, pdf), sin repetir.
func FromFormats(formats []string, title string) ([]summary.Exporter, error) {
	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no hay formatos de exportación", domain.ErrConfiguration)
	}
	seen := map[string]bool{}
	var out []summary.Exporter
	for _, f := range formats {
		if seen[f] {
			continue
		}
		seen[f] = true
		switch f {
		case "csv":
			out = append(out, NewCSVExporter())
		case "parquet":
			out = append(out, NewParquetExporter())
		case "pdf":
			out = append(out, pdf.NewSummaryExporter(title))
		default:
			return nil, fmt.Errorf("%w: formato de exportación desconocido %q", domain.ErrConfiguration, f)
		}
	}
	return out, nil
}
