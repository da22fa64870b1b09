package entity

// SummaryRow total disponible por (mercado, ASIN, nombre de producto).
// La tabla inventory_summary se reemplaza completa en cada ejecución.
type SummaryRow struct {
	Market         string `json:"country"`
	ASIN           string `json:"asin"`
	ProductName    string `json:"product_name"`
	QuantityOnHand int64  `json:"quantity_on_hand"`
}
