package snapshot

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-sync/internal/application/uom"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// Page una página de inventario del marketplace. NextToken vacío = última página.
type Page struct {
	Records   []entity.InventoryRecord
	NextToken string
}

// MarketplaceClient define el puerto de lectura paginada del inventario FBA por mercado.
type MarketplaceClient interface {
	FetchPage(ctx context.Context, market, nextToken string, pageSize int) (Page, error)
}

// IdentifierLookup resuelve el ASIN de un SKU en un mercado.
type IdentifierLookup interface {
	LookupIdentifier(ctx context.Context, sku, market string) (string, error)
}

// LookupFactory construye el cliente de lookup de un mercado (credenciales por región).
type LookupFactory interface {
	ForMarket(market string) (IdentifierLookup, error)
}

// UOMLoader entrega el mapa de factores de la ejecución (uom.Resolver).
type UOMLoader interface {
	RefreshAndLoad(ctx context.Context) (uom.Mapping, error)
}

// Clock fuente de tiempo inyectable.
type Clock func() time.Time
