package summary_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sync/internal/application/summary"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

var (
	t1 = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
)

func snap(sku, market string, ts time.Time, total int64) entity.SnapshotRow {
	return entity.SnapshotRow{SellerSKU: sku, Market: market, SnapshotTimestamp: ts, Quantities: entity.Quantities{Total: total}}
}

// store simula las tablas que toca el resumen dentro de una transacción.
type store struct {
	snapshot   []entity.SnapshotRow
	archive    map[entity.SnapshotKey]entity.ArchiveRow
	uom        []entity.UOMEntry
	summary    []entity.SummaryRow
	replaceErr error
	commitErr  error
}

func newStore() *store {
	return &store{archive: map[entity.SnapshotKey]entity.ArchiveRow{}}
}

type snapRepo struct{ s *store }

func (r snapRepo) Upsert(_ context.Context, rows []entity.SnapshotRow) (int, error) {
	r.s.snapshot = append(r.s.snapshot, rows...)
	return len(rows), nil
}
func (r snapRepo) ListAll(context.Context) ([]entity.SnapshotRow, error) {
	return append([]entity.SnapshotRow(nil), r.s.snapshot...), nil
}
func (r snapRepo) Truncate(context.Context) error {
	r.s.snapshot = nil
	return nil
}

type archiveRepo struct{ s *store }

func (r archiveRepo) EnsureTable(context.Context) error { return nil }
func (r archiveRepo) ArchiveSnapshot(context.Context) (int64, error) {
	var n int64
	for _, row := range r.s.snapshot {
		if _, ok := r.s.archive[row.Key()]; ok {
			continue
		}
		r.s.archive[row.Key()] = entity.NewArchiveRow(row)
		n++
	}
	return n, nil
}

func (r archiveRepo) ListByDate(_ context.Context, date time.Time) ([]entity.ArchiveRow, error) {
	var out []entity.ArchiveRow
	for _, a := range r.s.archive {
		if a.SnapshotDate.Equal(date) {
			out = append(out, a)
		}
	}
	return out, nil
}

type summaryRepo struct{ s *store }

func (r summaryRepo) Replace(_ context.Context, rows []entity.SummaryRow) (int64, error) {
	if r.s.replaceErr != nil {
		return 0, r.s.replaceErr
	}
	r.s.summary = rows
	return int64(len(rows)), nil
}
func (r summaryRepo) List(context.Context) ([]entity.SummaryRow, error) { return r.s.summary, nil }

type uomRepo struct{ s *store }

func (r uomRepo) Upsert(_ context.Context, e []entity.UOMEntry) (int, error) {
	r.s.uom = append(r.s.uom, e...)
	return len(e), nil
}
func (r uomRepo) ListAll(context.Context) ([]entity.UOMEntry, error) { return r.s.uom, nil }

// storeTx copia el estado antes de fn y lo restaura si hay error (rollback).
type storeTx struct{ s *store }

func (t storeTx) Run(_ context.Context, fn func(repos repository.TxRepositories) error) error {
	before := *t.s
	before.snapshot = append([]entity.SnapshotRow(nil), t.s.snapshot...)
	before.archive = map[entity.SnapshotKey]entity.ArchiveRow{}
	for k, v := range t.s.archive {
		before.archive[k] = v
	}
	err := fn(repository.TxRepositories{
		Snapshots: snapRepo{t.s},
		Archive:   archiveRepo{t.s},
		Summary:   summaryRepo{t.s},
		UOM:       uomRepo{t.s},
	})
	if err == nil && t.s.commitErr != nil {
		err = t.s.commitErr
	}
	if err != nil {
		*t.s = before
		return err
	}
	return nil
}

type textExporter struct{ format string }

func (e textExporter) Format() string { return e.format }
func (e textExporter) Export(_ context.Context, path string, rows []entity.SummaryRow) error {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r.Market + ";" + r.ASIN + ";" + r.ProductName + "\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func clock() time.Time { return t2.Add(time.Hour) }

func newSummarizer(s *store, dir string) *summary.Summarizer {
	return summary.NewSummarizer(storeTx{s}, nil, []summary.Exporter{textExporter{"csv"}}, summary.Options{ExportDir: dir}, clock, logger.Nop())
}

func TestSummarizer_EscenarioMismoSKUDosTimestamps(t *testing.T) {
	s := newStore()
	s.snapshot = []entity.SnapshotRow{snap("A1", "DE", t1, 20), snap("A1", "DE", t2, 20)}
	s.uom = []entity.UOMEntry{{ASIN: "B0A1", SellerSKU: "A1", Factor: decimal.NewFromInt(2), ProductName: "Widget"}}
	dir := t.TempDir()

	report, err := newSummarizer(s, dir).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.OutcomeCompleted, report.Outcome)
	assert.Equal(t, "2024-05-10", report.RunDate)
	assert.Equal(t, 2, report.SnapshotRows)
	assert.Equal(t, int64(2), report.ArchivedRows)
	assert.Equal(t, 1, report.RetainedRows)
	assert.Equal(t, []entity.SummaryRow{{Market: "DE", ASIN: "B0A1", ProductName: "Widget", QuantityOnHand: 20}}, s.summary)
	assert.Empty(t, s.snapshot, "el snapshot queda vacío")
	assert.Len(t, s.archive, 2)
	archived, err := archiveRepo{s}.ListByDate(context.Background(), time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, archived, 2, "ambas filas quedan en el histórico del día")

	want := filepath.Join(dir, "inventory_summary_2024-05-10.csv")
	assert.Equal(t, []string{want}, report.ExportPaths)
	assert.FileExists(t, want)
	assert.NoFileExists(t, want+".tmp")
}

func TestSummarizer_EscenarioSinUOM(t *testing.T) {
	s := newStore()
	s.snapshot = []entity.SnapshotRow{snap("B2", "FR", t1, 5)}

	_, err := newSummarizer(s, t.TempDir()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.SummaryRow{{Market: "FR", ASIN: "", ProductName: "(unknown)", QuantityOnHand: 5}}, s.summary)
}

func TestSummarizer_SnapshotVacio(t *testing.T) {
	s := newStore()
	s.summary = []entity.SummaryRow{{Market: "DE", ASIN: "X", ProductName: "prev", QuantityOnHand: 1}}
	dir := t.TempDir()

	report, err := newSummarizer(s, dir).Run(context.Background())
	require.ErrorIs(t, err, domain.ErrNothingToProcess)
	assert.Equal(t, entity.OutcomeNothingToProcess, report.Outcome)
	assert.Len(t, s.summary, 1, "el resumen anterior no se toca")

	files, _ := os.ReadDir(dir)
	assert.Empty(t, files)
}

func TestSummarizer_FalloAlReemplazarDejaTodoIntacto(t *testing.T) {
	s := newStore()
	s.snapshot = []entity.SnapshotRow{snap("A1", "DE", t1, 3)}
	s.replaceErr = errors.New("disk full")
	dir := t.TempDir()

	report, err := newSummarizer(s, dir).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, entity.OutcomeFailed, report.Outcome)
	assert.Len(t, s.snapshot, 1, "rollback: el snapshot no se vacía")
	assert.Empty(t, s.archive)

	files, _ := os.ReadDir(dir)
	assert.Empty(t, files, "no quedan temporales")
}

func TestSummarizer_CommitFallidoEliminaArchivosPublicados(t *testing.T) {
	s := newStore()
	s.snapshot = []entity.SnapshotRow{snap("A1", "DE", t1, 3)}
	s.commitErr = errors.New("connection reset")
	dir := t.TempDir()

	_, err := newSummarizer(s, dir).Run(context.Background())
	require.Error(t, err)
	files, _ := os.ReadDir(dir)
	assert.Empty(t, files)
}

func TestSummarizer_FilaSinSKUCuentaComoDesconocido(t *testing.T) {
	s := newStore()
	s.snapshot = []entity.SnapshotRow{snap("A1", "DE", t1, 3), snap("", "DE", t1, 7)}

	report, err := newSummarizer(s, t.TempDir()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.RetainedRows)
	assert.Equal(t, []entity.SummaryRow{{Market: "DE", ASIN: "", ProductName: "(unknown)", QuantityOnHand: 10}}, s.summary)
}

func TestSummarizer_CommitFallidoRestauraElArchivoDelDia(t *testing.T) {
	s := newStore()
	s.snapshot = []entity.SnapshotRow{snap("A1", "DE", t1, 3)}
	s.uom = []entity.UOMEntry{{ASIN: "B0A1", SellerSKU: "A1", Factor: decimal.NewFromInt(1), ProductName: "Primera"}}
	dir := t.TempDir()
	final := filepath.Join(dir, "inventory_summary_2024-05-10.csv")

	_, err := newSummarizer(s, dir).Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(final)
	require.NoError(t, err)
	firstSummary := s.summary

	// Segunda ejecución del mismo día con otros datos; el commit falla.
	s.snapshot = []entity.SnapshotRow{snap("A2", "FR", t2, 9)}
	s.commitErr = errors.New("connection reset")
	_, err = newSummarizer(s, dir).Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, firstSummary, s.summary, "rollback: queda el resumen de la primera ejecución")
	require.FileExists(t, final)
	got, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(got), "el archivo publicado corresponde al resumen en la base")
	assert.NoFileExists(t, final+".bak")
	assert.NoFileExists(t, final+".tmp")
}

func TestSummarizer_SegundaEjecucionReemplazaYBorraRespaldo(t *testing.T) {
	s := newStore()
	s.snapshot = []entity.SnapshotRow{snap("A1", "DE", t1, 3)}
	dir := t.TempDir()
	final := filepath.Join(dir, "inventory_summary_2024-05-10.csv")

	_, err := newSummarizer(s, dir).Run(context.Background())
	require.NoError(t, err)

	s.snapshot = []entity.SnapshotRow{snap("A2", "FR", t2, 9)}
	_, err = newSummarizer(s, dir).Run(context.Background())
	require.NoError(t, err)

	got, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "FR;;(unknown)\n", string(got))
	assert.NoFileExists(t, final+".bak")
}

func TestSummarizer_ArchivoNoDuplica(t *testing.T) {
	s := newStore()
	row := snap("A1", "DE", t1, 3)
	s.archive[row.Key()] = entity.NewArchiveRow(row)
	s.snapshot = []entity.SnapshotRow{row, snap("A2", "DE", t1, 4)}

	report, err := newSummarizer(s, t.TempDir()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.ArchivedRows)
	assert.Len(t, s.archive, 2)
}

func TestClean_NormalizaYEliminaDuplicados(t *testing.T) {
	rows := []entity.SnapshotRow{
		snap(` "a1" `, "DE", t1, 1),
		snap("A1", "DE", t1, 1),
		snap("  ", "DE", t1, 1),
		snap("A1", "DE", t1, 2),
	}
	out := summary.Clean(rows)
	require.Len(t, out, 3)
	assert.Equal(t, "A1", out[0].SellerSKU)
	assert.Equal(t, "", out[1].SellerSKU, "la fila sin SKU se conserva")
	assert.Equal(t, int64(2), out[2].Total)
}

func TestRetainLatest_EmpateGanaElUltimo(t *testing.T) {
	rows := []entity.SnapshotRow{
		snap("B", "FR", t2, 1),
		snap("A", "DE", t2, 1),
		snap("A", "DE", t1, 9),
		snap("A", "DE", t2, 2),
	}
	out := summary.RetainLatest(rows)
	require.Len(t, out, 2)
	assert.Equal(t, "DE", out[0].Market)
	assert.Equal(t, int64(2), out[0].Total)
	assert.Equal(t, "FR", out[1].Market)
}

func TestJoinUOM_VariasEntradasPorSKU(t *testing.T) {
	entries := []entity.UOMEntry{
		{ASIN: "B0Z", SellerSKU: "a1", Factor: decimal.NewFromInt(3), ProductName: "Zeta"},
		{ASIN: "B0B", SellerSKU: "A1 ", Factor: decimal.NewFromInt(2), ProductName: ""},
	}
	joined := summary.JoinUOM([]entity.SnapshotRow{snap("A1", "DE", t1, 1), snap("ZZ", "DE", t1, 1)}, entries)

	require.Len(t, joined, 2)
	assert.Equal(t, "B0B", joined[0].ASIN)
	assert.Equal(t, "(unknown)", joined[0].ProductName)
	assert.True(t, joined[0].Factor.Equal(decimal.NewFromInt(2)))
	assert.False(t, joined[0].Defaulted)
	assert.True(t, joined[1].Defaulted)
	assert.True(t, joined[1].Factor.Equal(decimal.NewFromInt(1)))
}

func TestAggregate_CompletoYConFactor(t *testing.T) {
	latest := []entity.SnapshotRow{
		snap("A", "DE", t1, 4),
		snap("B", "DE", t1, 6),
		snap("C", "FR", t1, 5),
	}
	entries := []entity.UOMEntry{
		{ASIN: "B0X", SellerSKU: "A", Factor: decimal.NewFromInt(2), ProductName: "X"},
		{ASIN: "B0X", SellerSKU: "B", Factor: decimal.RequireFromString("0.5"), ProductName: "X"},
	}
	joined := summary.JoinUOM(latest, entries)

	plain := summary.Aggregate(joined, false)
	var total int64
	for _, r := range plain {
		total += r.QuantityOnHand
	}
	assert.Equal(t, int64(15), total, "toda fila retenida aporta al resumen")
	assert.Equal(t, []entity.SummaryRow{
		{Market: "DE", ASIN: "B0X", ProductName: "X", QuantityOnHand: 10},
		{Market: "FR", ASIN: "", ProductName: "(unknown)", QuantityOnHand: 5},
	}, plain)

	converted := summary.Aggregate(joined, true)
	assert.Equal(t, int64(11), converted[0].QuantityOnHand)
}
