package uom

import (
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/inventory"
)

// Columnas canónicas de la hoja UOM.
const (
	ColASIN   = "asin"
	ColSKU    = "seller_sku"
	ColFactor = "uom_factor"
	ColName   = "product_name"
)

// headerAliases cabeceras conocidas (en minúsculas, sin espacios) -> columna canónica.
// La hoja original viene en alemán (ASIN, SKU, Einheiten).
var headerAliases = map[string]string{
	"asin":         ColASIN,
	"master_sku":   ColASIN,
	"sku":          ColSKU,
	"seller_sku":   ColSKU,
	"seller-sku":   ColSKU,
	"sellersku":    ColSKU,
	"einheiten":    ColFactor,
	"uom":          ColFactor,
	"uom_factor":   ColFactor,
	"factor":       ColFactor,
	"product_name": ColName,
	"produktname":  ColName,
	"name":         ColName,
	"title":        ColName,
}

// SourceRow fila de la hoja con columnas canónicas, sin validar.
type SourceRow struct {
	Line        int // 1-based, contando la cabecera
	ASIN        string
	SellerSKU   string
	Factor      string
	ProductName string
}

// CanonicalHeader normaliza una cabecera: quita espacios/BOM/comillas y aplica alias.
// Devuelve "" si la columna no interesa.
func CanonicalHeader(h string) string {
	s := strings.TrimPrefix(h, "\ufeff")
	s = strings.ToLower(strings.Trim(strings.TrimSpace(s), `"`))
	s = strings.ReplaceAll(s, " ", "_")
	return headerAliases[s]
}

// ParseRows mapea la tabla a filas canónicas. Solo exige la columna SKU;
// el resto puede faltar (el backfill trabaja con hojas sin ASIN).
func ParseRows(t *Table) ([]SourceRow, map[string]bool, error) {
	if t == nil || len(t.Header) == 0 {
		return nil, nil, fmt.Errorf("%w: hoja UOM sin cabecera", domain.ErrConfiguration)
	}
	idx := map[string]int{}
	for i, h := range t.Header {
		col := CanonicalHeader(h)
		if col == "" {
			continue
		}
		if _, dup := idx[col]; !dup {
			idx[col] = i
		}
	}
	if _, ok := idx[ColSKU]; !ok {
		return nil, nil, fmt.Errorf("%w: hoja UOM sin columna SKU (cabecera: %v)", domain.ErrConfiguration, t.Header)
	}
	present := make(map[string]bool, len(idx))
	for col := range idx {
		present[col] = true
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]SourceRow, 0, len(t.Rows))
	for n, row := range t.Rows {
		out = append(out, SourceRow{
			Line:        n + 2,
			ASIN:        inventory.NormalizeIdentifier(cell(row, ColASIN)),
			SellerSKU:   strings.Trim(cell(row, ColSKU), `"`),
			Factor:      cell(row, ColFactor),
			ProductName: cell(row, ColName),
		})
	}
	return out, present, nil
}

// ParseEntries convierte la hoja a entradas UOM válidas: exige columnas ASIN, SKU y
// factor; descarta filas sin ASIN o SKU; factor inválido => 1. Claves repetidas:
// gana la última fila. Devuelve también cuántas filas se descartaron.
func ParseEntries(t *Table) ([]entity.UOMEntry, int, error) {
	rows, present, err := ParseRows(t)
	if err != nil {
		return nil, 0, err
	}
	for _, col := range []string{ColASIN, ColFactor} {
		if !present[col] {
			return nil, 0, fmt.Errorf("%w: hoja UOM sin columna %s (cabecera: %v)", domain.ErrConfiguration, col, t.Header)
		}
	}

	pos := make(map[entity.UOMKey]int, len(rows))
	entries := make([]entity.UOMEntry, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		if r.ASIN == "" || r.SellerSKU == "" {
			dropped++
			continue
		}
		e := entity.UOMEntry{
			ASIN:        r.ASIN,
			SellerSKU:   r.SellerSKU,
			Factor:      inventory.ParseFactor(r.Factor),
			ProductName: r.ProductName,
		}
		if i, ok := pos[e.Key()]; ok {
			entries[i] = e
			continue
		}
		pos[e.Key()] = len(entries)
		entries = append(entries, e)
	}
	return entries, dropped, nil
}
