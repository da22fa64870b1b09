package uom

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-sync/internal/domain/inventory"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// BackfillResult resumen del backfill de ASIN.
type BackfillResult struct {
	OutputPath string `json:"output_path"`
	Rows       int    `json:"rows"`
	Filled     int    `json:"filled"`
	Missing    int    `json:"missing"` // filas que siguen sin ASIN
}

// Backfiller completa la columna ASIN del archivo UOM con el último ASIN observado por SKU
// y escribe una hoja nueva que puede usarse como origen en la siguiente ejecución.
type Backfiller struct {
	source      Source
	identifiers repository.IdentifierRepository
	writer      RowWriter
	log         *logger.Logger
}

// NewBackfiller construye el caso de uso.
func NewBackfiller(source Source, identifiers repository.IdentifierRepository, writer RowWriter, log *logger.Logger) *Backfiller {
	return &Backfiller{source: source, identifiers: identifiers, writer: writer, log: log.Component("uom_backfill")}
}

// Backfill rellena solo los ASIN vacíos; los existentes no se tocan.
func (b *Backfiller) Backfill(ctx context.Context, outPath string) (*BackfillResult, error) {
	table, err := b.source.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer origen UOM %s: %w", b.source.Name(), err)
	}
	rows, _, err := ParseRows(table)
	if err != nil {
		return nil, err
	}
	latest, err := b.identifiers.LatestBySKU(ctx)
	if err != nil {
		return nil, fmt.Errorf("asin por sku: %w", err)
	}
	// Las observaciones se guardan con el SKU normalizado.
	res := &BackfillResult{OutputPath: outPath, Rows: len(rows)}
	for i := range rows {
		if rows[i].ASIN != "" {
			continue
		}
		if asin, ok := latest[inventory.NormalizeSKU(rows[i].SellerSKU)]; ok && asin != "" {
			rows[i].ASIN = asin
			res.Filled++
			continue
		}
		res.Missing++
	}
	if err := b.writer.WriteRows(ctx, outPath, rows); err != nil {
		return nil, fmt.Errorf("escribir %s: %w", outPath, err)
	}
	b.log.Info().Int("filled", res.Filled).Int("missing", res.Missing).Str("output", outPath).Msg("backfill de ASIN terminado")
	return res, nil
}
