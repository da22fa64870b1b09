package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/inventory"
)

// Clean normaliza el SKU (espacios, comillas, mayúsculas) y elimina duplicados exactos
// conservando la primera aparición. Las filas sin SKU se conservan: su stock cuenta en
// el resumen como producto desconocido.
func Clean(rows []entity.SnapshotRow) []entity.SnapshotRow {
	seen := make(map[entity.SnapshotRow]bool, len(rows))
	out := make([]entity.SnapshotRow, 0, len(rows))
	for _, r := range rows {
		r.SellerSKU = inventory.NormalizeSKU(r.SellerSKU)
		r.SnapshotTimestamp = r.SnapshotTimestamp.UTC()
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

func countWithoutSKU(rows []entity.SnapshotRow) int {
	n := 0
	for _, r := range rows {
		if r.SellerSKU == "" {
			n++
		}
	}
	return n
}

type skuMarket struct {
	sku    string
	market string
}

// RetainLatest deja una fila por (SKU, mercado): la de timestamp más reciente. En empate
// gana la que aparece después. La salida va ordenada por mercado y SKU.
func RetainLatest(rows []entity.SnapshotRow) []entity.SnapshotRow {
	latest := make(map[skuMarket]entity.SnapshotRow, len(rows))
	for _, r := range rows {
		k := skuMarket{sku: r.SellerSKU, market: r.Market}
		if cur, ok := latest[k]; ok && r.SnapshotTimestamp.Before(cur.SnapshotTimestamp) {
			continue
		}
		latest[k] = r
	}
	out := make([]entity.SnapshotRow, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Market != out[j].Market {
			return out[i].Market < out[j].Market
		}
		return out[i].SellerSKU < out[j].SellerSKU
	})
	return out
}

// JoinedRow fila del snapshot con los datos de producto de product_uom.
type JoinedRow struct {
	entity.SnapshotRow
	ASIN        string
	ProductName string
	Factor      decimal.Decimal
	Defaulted   bool // sin entrada UOM para el SKU
}

// JoinUOM cruza por SKU normalizado contra product_uom. Sin entrada: ASIN vacío,
// nombre "(unknown)" y factor 1. Si un SKU tiene varias entradas se elige la de ASIN no
// vacío y, entre esas, el ASIN menor, para que el resultado no dependa del orden.
func JoinUOM(rows []entity.SnapshotRow, entries []entity.UOMEntry) []JoinedRow {
	bySKU := make(map[string]entity.UOMEntry, len(entries))
	for _, e := range entries {
		sku := inventory.NormalizeSKU(e.SellerSKU)
		if sku == "" {
			continue
		}
		e.ASIN = inventory.NormalizeIdentifier(e.ASIN)
		if cur, ok := bySKU[sku]; ok && !preferEntry(e, cur) {
			continue
		}
		bySKU[sku] = e
	}

	out := make([]JoinedRow, 0, len(rows))
	for _, r := range rows {
		j := JoinedRow{SnapshotRow: r}
		e, ok := bySKU[inventory.NormalizeSKU(r.SellerSKU)]
		if !ok {
			j.ProductName = entity.UnknownProductName
			j.Factor = inventory.DefaultFactor
			j.Defaulted = true
			out = append(out, j)
			continue
		}
		j.ASIN = e.ASIN
		j.ProductName = e.ProductName
		if j.ProductName == "" {
			j.ProductName = entity.UnknownProductName
		}
		j.Factor = e.Factor
		if !j.Factor.IsPositive() {
			j.Factor = inventory.DefaultFactor
		}
		out = append(out, j)
	}
	return out
}

func preferEntry(candidate, current entity.UOMEntry) bool {
	if (candidate.ASIN != "") != (current.ASIN != "") {
		return candidate.ASIN != ""
	}
	if candidate.ASIN != current.ASIN {
		return candidate.ASIN < current.ASIN
	}
	return candidate.SellerSKU < current.SellerSKU
}

type summaryKey struct {
	market string
	asin   string
	name   string
}

// Aggregate suma el total por (mercado, ASIN, nombre de producto). Con applyFactor el
// total se multiplica por el factor UOM; si las cantidades del snapshot ya vienen
// convertidas debe ir en false para no aplicar el factor dos veces.
func Aggregate(rows []JoinedRow, applyFactor bool) []entity.SummaryRow {
	totals := map[summaryKey]int64{}
	for _, r := range rows {
		qty := r.Total
		if applyFactor {
			qty = inventory.ConvertQuantity(qty, r.Factor)
		}
		totals[summaryKey{market: r.Market, asin: r.ASIN, name: r.ProductName}] += qty
	}
	out := make([]entity.SummaryRow, 0, len(totals))
	for k, qty := range totals {
		out = append(out, entity.SummaryRow{Market: k.market, ASIN: k.asin, ProductName: k.name, QuantityOnHand: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		if a.ASIN != b.ASIN {
			return a.ASIN < b.ASIN
		}
		return a.ProductName < b.ProductName
	})
	return out
}
