package entity

import "github.com/shopspring/decimal"

// UnknownProductName nombre usado cuando un SKU no tiene entrada UOM.
const UnknownProductName = "(unknown)"

// UOMEntry factor de conversión de unidades para un par (ASIN, SKU).
// Factor siempre > 0; por defecto 1.
type UOMEntry struct {
	ASIN        string
	SellerSKU   string
	Factor      decimal.Decimal
	ProductName string
}

// UOMKey clave de búsqueda del factor: (ASIN, SKU).
type UOMKey struct {
	ASIN      string
	SellerSKU string
}

// Key devuelve la clave de la entrada.
func (e UOMEntry) Key() UOMKey {
	return UOMKey{ASIN: e.ASIN, SellerSKU: e.SellerSKU}
}
