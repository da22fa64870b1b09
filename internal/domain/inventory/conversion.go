// Package inventory contiene los servicios de dominio para convertir y normalizar
// cantidades de inventario (sin dependencias de infraestructura).
package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// DefaultFactor factor UOM cuando no hay entrada o el valor no es válido.
var DefaultFactor = decimal.NewFromInt(1)

// ConvertQuantity multiplica una cantidad por el factor UOM y redondea al entero más
// cercano (mitades lejos de cero), porque las columnas de cantidad son INTEGER.
func ConvertQuantity(qty int64, factor decimal.Decimal) int64 {
	if factor.Equal(DefaultFactor) {
		return qty
	}
	return decimal.NewFromInt(qty).Mul(factor).Round(0).IntPart()
}

// ApplyFactor convierte las siete medidas de cantidad con el mismo factor.
func ApplyFactor(q entity.Quantities, factor decimal.Decimal) entity.Quantities {
	return entity.Quantities{
		Fulfillable:     ConvertQuantity(q.Fulfillable, factor),
		Unfulfillable:   ConvertQuantity(q.Unfulfillable, factor),
		InboundWorking:  ConvertQuantity(q.InboundWorking, factor),
		InboundShipped:  ConvertQuantity(q.InboundShipped, factor),
		InboundReceived: ConvertQuantity(q.InboundReceived, factor),
		Reserved:        ConvertQuantity(q.Reserved, factor),
		Total:           ConvertQuantity(q.Total, factor),
	}
}

// ParseFactor convierte el texto de la hoja UOM a factor positivo.
// Vacío, no numérico, cero o negativo => 1.
func ParseFactor(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DefaultFactor
	}
	// Las hojas en alemán usan coma decimal ("2,5").
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := decimal.NewFromString(s)
	if err != nil || !f.IsPositive() {
		return DefaultFactor
	}
	return f
}

// NormalizeSKU deja el SKU en forma estable para agrupar: sin espacios ni comillas
// en los extremos y en mayúsculas.
func NormalizeSKU(sku string) string {
	s := strings.TrimSpace(sku)
	s = strings.Trim(s, `"`)
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeIdentifier limpia un ASIN leído de archivo (espacios y comillas).
func NormalizeIdentifier(asin string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(asin), `"`))
}
