// Package uomsource lee y escribe el archivo tabular de factores UOM (CSV o XLSX).
package uomsource

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-sync/internal/application/uom"
	"github.com/jhoicas/inventario-sync/internal/domain"
)

var _ uom.Source = (*CSVSource)(nil)

// CSVSource hoja UOM en CSV. Detecta ',' o ';' como separador.
type CSVSource struct {
	path     string
	encoding string
}

// NewCSVSource construye el origen. encoding: utf-8 (por defecto), windows-1252 o iso-8859-1.
func NewCSVSource(path, encoding string) *CSVSource {
	return &CSVSource{path: path, encoding: strings.ToLower(strings.TrimSpace(encoding))}
}

// Name ruta del archivo.
func (s *CSVSource) Name() string { return s.path }

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch encoding {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("%w: UOM_SOURCE_ENCODING desconocido %q", domain.ErrConfiguration, encoding)
	}
}

// ReadTable lee todo el archivo. Un archivo inexistente o ilegible es error de configuración.
func (s *CSVSource) ReadTable(ctx context.Context) (*uom.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: abrir %s: %v", domain.ErrConfiguration, s.path, err)
	}
	r, err := decoder(bytes.NewReader(raw), s.encoding)
	if err != nil {
		return nil, err
	}
	return parseCSV(r, detectDelimiter(raw))
}

// detectDelimiter elige ';' si la primera línea tiene más ';' que ','.
func detectDelimiter(raw []byte) rune {
	first := string(raw)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}
	return ','
}

func parseCSV(r io.Reader, delim rune) (*uom.Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: archivo UOM vacío", domain.ErrConfiguration)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cabecera UOM: %v", domain.ErrConfiguration, err)
	}
	t := &uom.Table{Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: leer UOM: %v", domain.ErrConfiguration, err)
		}
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// NewSource elige el lector según la extensión del archivo.
func NewSource(path, sheet, encoding string) (uom.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return NewCSVSource(path, encoding), nil
	case ".xlsx", ".xlsm":
		return NewXLSXSource(path, sheet), nil
	default:
		return nil, fmt.Errorf("%w: formato UOM no soportado %q", domain.ErrConfiguration, path)
	}
}
