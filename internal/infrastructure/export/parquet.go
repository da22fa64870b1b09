package export

import (
	"context"
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/jhoicas/inventario-sync/internal/application/summary"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

var _ summary.Exporter = (*ParquetExporter)(nil)

// SummaryRecord esquema Parquet de una fila del resumen.
type SummaryRecord struct {
	Country        string `parquet:"name=country, type=BYTE_ARRAY, convertedtype=UTF8"`
	ASIN           string `parquet:"name=asin, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProductName    string `parquet:"name=product_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	QuantityOnHand int64  `parquet:"name=quantity_on_hand, type=INT64"`
}

// ParquetExporter resumen en Parquet (snappy).
type ParquetExporter struct {
	parallelism int64
}

// NewParquetExporter construye el exporter.
func NewParquetExporter() *ParquetExporter { return &ParquetExporter{parallelism: 2} }

// Format extensión del archivo.
func (e *ParquetExporter) Format() string { return "parquet" }

// Export escribe las filas en path.
func (e *ParquetExporter) Export(ctx context.Context, path string, rows []entity.SummaryRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("crear %s: %w", path, err)
	}
	pw, err := writer.NewParquetWriter(fw, new(SummaryRecord), e.parallelism)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		rec := SummaryRecord{Country: r.Market, ASIN: r.ASIN, ProductName: r.ProductName, QuantityOnHand: r.QuantityOnHand}
		if err := pw.Write(rec); err != nil {
			_ = fw.Close()
			return fmt.Errorf("escribir parquet: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("cerrar parquet: %w", err)
	}
	return fw.Close()
}
