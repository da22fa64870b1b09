package entity

import "time"

// IdentifierObservation ASIN observado para un SKU en un mercado durante una ejecución.
// Alimenta el backfill de ASIN del archivo UOM.
type IdentifierObservation struct {
	SellerSKU  string
	Market     string
	ASIN       string
	ObservedAt time.Time
}
