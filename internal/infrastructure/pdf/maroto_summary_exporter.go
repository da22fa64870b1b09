// Package pdf genera la versión imprimible del resumen de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: País | ASIN | Producto | Cantidad                   │
//	│  (subtotal al cerrar cada país)                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL GENERAL                                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/inventario-sync/internal/application/summary"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

var _ summary.Exporter = (*SummaryExporter)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Exporter ──────────────────────────────────────────────────────────────────

// SummaryExporter escribe el resumen como PDF usando Maroto v2.
type SummaryExporter struct {
	title string
	now   func() time.Time
}

// NewSummaryExporter construye el exporter con el título del documento.
func NewSummaryExporter(title string) *SummaryExporter {
	if title == "" {
		title = "Inventario FBA por país"
	}
	return &SummaryExporter{title: title, now: time.Now}
}

// Format extensión del archivo.
func (e *SummaryExporter) Format() string { return "pdf" }

// Export genera el documento y lo escribe en path.
func (e *SummaryExporter) Export(ctx context.Context, path string, rows []entity.SummaryRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := e.Render(rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("pdf: escribir %s: %w", path, err)
	}
	return nil
}

// Render genera el PDF y devuelve sus bytes.
func (e *SummaryExporter) Render(rows []entity.SummaryRow) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(e.title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(e.title, e.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(bodyRows(rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+at.UTC().Format("2006-01-02 15:04 UTC"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("País", 1, align.Center),
		h("ASIN", 3, align.Left),
		h("Producto", 6, align.Left),
		h("Cantidad", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// bodyRows una fila por línea del resumen y un subtotal al cambiar de país.
func bodyRows(rows []entity.SummaryRow) []core.Row {
	out := make([]core.Row, 0, len(rows)+8)
	var subtotal int64
	for i, r := range rows {
		rr := row.New(6).Add(
			col.New(1).Add(text.New(r.Market, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(nonEmpty(r.ASIN, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(6).Add(text.New(r.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(strconv.FormatInt(r.QuantityOnHand, 10), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		)
		if i%2 == 1 {
			rr = rr.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		out = append(out, rr)
		subtotal += r.QuantityOnHand

		if i == len(rows)-1 || rows[i+1].Market != r.Market {
			out = append(out, row.New(6).Add(
				col.New(10).Add(text.New("Subtotal "+r.Market, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right, Top: 1})),
				col.New(2).Add(text.New(strconv.FormatInt(subtotal, 10), props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right, Top: 1, Right: 1})),
			))
			subtotal = 0
		}
	}
	return out
}

func totalRow(rows []entity.SummaryRow) core.Row {
	var total int64
	for _, r := range rows {
		total += r.QuantityOnHand
	}
	return row.New(10).Add(
		col.New(10).Add(text.New("TOTAL GENERAL", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2,
		})),
		col.New(2).Add(text.New(strconv.FormatInt(total, 10), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
