package uom

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/inventory"
)

// Mapping factores UOM en memoria para una ejecución. Solo lectura tras construirse.
type Mapping struct {
	factors map[entity.UOMKey]decimal.Decimal
}

// NewMapping construye el mapa; factores no positivos se guardan como 1.
func NewMapping(entries []entity.UOMEntry) Mapping {
	m := Mapping{
		factors: make(map[entity.UOMKey]decimal.Decimal, len(entries)),
	}
	for _, e := range entries {
		f := e.Factor
		if !f.IsPositive() {
			f = inventory.DefaultFactor
		}
		m.factors[e.Key()] = f
	}
	return m
}

// Lookup devuelve el factor de (asin, sku) y si existe.
func (m Mapping) Lookup(asin, sku string) (decimal.Decimal, bool) {
	f, ok := m.factors[entity.UOMKey{ASIN: asin, SellerSKU: sku}]
	return f, ok
}

// Factor devuelve el factor de (asin, sku) o 1 si no hay entrada.
func (m Mapping) Factor(asin, sku string) decimal.Decimal {
	if f, ok := m.Lookup(asin, sku); ok {
		return f
	}
	return inventory.DefaultFactor
}

// Len número de claves.
func (m Mapping) Len() int { return len(m.factors) }
