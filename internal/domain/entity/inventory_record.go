package entity

// InventoryRecord es un registro crudo de inventario FBA devuelto por el marketplace.
// Es transitorio: lo produce el Collector y lo consumen el Enricher y el Normalizer.
type InventoryRecord struct {
	Market    string // código de mercado (DE, FR, ...), asignado por el Collector
	SellerSKU string
	ASIN      string // vacío = sin identificador de producto
	Quantities
	LastUpdated string // texto crudo de la API; vacío si no viene
}

// Quantities desglose de cantidades de un SKU en un centro de fulfillment.
type Quantities struct {
	Fulfillable     int64 `json:"fulfillable_quantity"`
	Unfulfillable   int64 `json:"unfulfillable_quantity"` // total no vendible
	InboundWorking  int64 `json:"inbound_working_quantity"`
	InboundShipped  int64 `json:"inbound_shipped_quantity"`
	InboundReceived int64 `json:"inbound_received_quantity"`
	Reserved        int64 `json:"reserved_quantity"` // total reservado
	Total           int64 `json:"total_quantity"`
}

// HasIdentifier indica si el registro ya trae ASIN.
func (r InventoryRecord) HasIdentifier() bool {
	return r.ASIN != ""
}
