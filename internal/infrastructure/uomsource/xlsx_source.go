package uomsource

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/inventario-sync/internal/application/uom"
	"github.com/jhoicas/inventario-sync/internal/domain"
)

var _ uom.Source = (*XLSXSource)(nil)

// XLSXSource hoja UOM en un libro Excel.
type XLSXSource struct {
	path  string
	sheet string
}

// NewXLSXSource construye el origen. sheet vacío usa la primera hoja.
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

// Name ruta y hoja.
func (s *XLSXSource) Name() string {
	if s.sheet == "" {
		return s.path
	}
	return s.path + "#" + s.sheet
}

// ReadTable lee la hoja completa; la primera fila es la cabecera.
func (s *XLSXSource) ReadTable(ctx context.Context) (*uom.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: abrir %s: %v", domain.ErrConfiguration, s.path, err)
	}
	defer func() { _ = f.Close() }()

	sheet := s.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: hoja %q no existe en %s", domain.ErrConfiguration, sheet, s.path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: leer hoja %q: %v", domain.ErrConfiguration, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: hoja %q vacía", domain.ErrConfiguration, sheet)
	}
	t := &uom.Table{Header: rows[0]}
	for _, r := range rows[1:] {
		if isBlank(r) {
			continue
		}
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}
