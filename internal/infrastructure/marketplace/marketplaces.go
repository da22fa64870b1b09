package marketplace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-sync/internal/domain"
)

// marketplaceIDs identificadores de marketplace por código de país (región EU).
var marketplaceIDs = map[string]string{
	"DE": "A1PA6795UKMFR9",
	"FR": "A13V1IB3VIYZZH",
	"IT": "APJ6JRA9NG5V4",
	"ES": "A1RKKUPIHCS9HS",
	"NL": "A1805IZSGTT6HS",
	"PL": "A1C3SOZRARQ6R3",
	"SE": "A2NODRKZP88ZB9",
	"BE": "AMEN7PMS3EDWL",
	"UK": "A1F83G8C2ARO7P",
	"TR": "A33AVAJ2PDY3EV",
}

// MarketplaceID devuelve el id del marketplace para un código de mercado.
func MarketplaceID(market string) (string, error) {
	id, ok := marketplaceIDs[strings.ToUpper(strings.TrimSpace(market))]
	if !ok {
		return "", fmt.Errorf("%w: mercado desconocido %q", domain.ErrConfiguration, market)
	}
	return id, nil
}

// ValidateMarkets comprueba que todos los códigos configurados sean conocidos.
func ValidateMarkets(markets []string) error {
	var unknown []string
	for _, m := range markets {
		if _, err := MarketplaceID(m); err != nil {
			unknown = append(unknown, m)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: mercados desconocidos %v (soportados: %v)", domain.ErrConfiguration, unknown, KnownMarkets())
	}
	return nil
}

// KnownMarkets códigos soportados, ordenados.
func KnownMarkets() []string {
	out := make([]string, 0, len(marketplaceIDs))
	for k := range marketplaceIDs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
