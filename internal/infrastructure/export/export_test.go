package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/export"
)

var rows = []entity.SummaryRow{
	{Market: "DE", ASIN: "B0A1", ProductName: "Widget, rojo", QuantityOnHand: 20},
	{Market: "DE", ASIN: "B0A2", ProductName: "Gärtner Set", QuantityOnHand: 3},
	{Market: "FR", ASIN: "", ProductName: "(unknown)", QuantityOnHand: 5},
}

func TestCSVExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory_summary_2024-05-10.csv")
	require.NoError(t, export.NewCSVExporter().Export(context.Background(), path, rows))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"country", "asin", "product_name", "quantity_on_hand"},
		{"DE", "B0A1", "Widget, rojo", "20"},
		{"DE", "B0A2", "Gärtner Set", "3"},
		{"FR", "", "(unknown)", "5"},
	}, got)
}

func TestParquetExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory_summary_2024-05-10.parquet")
	require.NoError(t, export.NewParquetExporter().Export(context.Background(), path, rows))

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(export.SummaryRecord), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.Equal(t, int64(3), pr.GetNumRows())
	got := make([]export.SummaryRecord, 3)
	require.NoError(t, pr.Read(&got))
	assert.Equal(t, export.SummaryRecord{Country: "DE", ASIN: "B0A1", ProductName: "Widget, rojo", QuantityOnHand: 20}, got[0])
	assert.Equal(t, "(unknown)", got[2].ProductName)
}

func TestPDFExporter(t *testing.T) {
	exps, err := export.FromFormats([]string{"pdf"}, "Resumen")
	require.NoError(t, err)
	require.Len(t, exps, 1)

	path := filepath.Join(t.TempDir(), "inventory_summary_2024-05-10.pdf")
	require.NoError(t, exps[0].Export(context.Background(), path, rows))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestFromFormats(t *testing.T) {
	exps, err := export.FromFormats([]string{"csv", "parquet", "csv"}, "")
	require.NoError(t, err)
	require.Len(t, exps, 2)
	assert.Equal(t, "csv", exps[0].Format())
	assert.Equal(t, "parquet", exps[1].Format())

	_, err = export.FromFormats([]string{"xml"}, "")
	assert.True(t, errors.Is(err, domain.ErrConfiguration))

	_, err = export.FromFormats(nil, "")
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
