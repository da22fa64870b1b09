package snapshot

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// DefaultPageSize tamaño de página cuando no se configura.
const DefaultPageSize = 100

// Collector recorre todas las páginas de inventario de un mercado.
type Collector struct {
	client   MarketplaceClient
	pageSize int
	log      *logger.Logger
}

// NewCollector construye el collector. pageSize <= 0 usa DefaultPageSize.
func NewCollector(client MarketplaceClient, pageSize int, log *logger.Logger) *Collector {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Collector{client: client, pageSize: pageSize, log: log.Component("collector")}
}

// Collect pide páginas hasta que el token siguiente venga vacío. Cada registro queda
// marcado con el mercado y se conserva el orden de la API. Ante el primer error se
// detiene (sin reintentos) y devuelve lo acumulado con el fallo registrado.
func (c *Collector) Collect(ctx context.Context, market string) ([]entity.InventoryRecord, entity.MarketOutcome) {
	out := entity.MarketOutcome{Market: market}
	var records []entity.InventoryRecord
	seen := map[string]bool{}
	token := ""
	log := c.log.Market(market)

	for {
		page, err := c.client.FetchPage(ctx, market, token, c.pageSize)
		if err != nil {
			log.Warn().Err(err).Int("pages", out.Pages).Msg("paginación interrumpida")
			out.Failures = append(out.Failures, entity.Failure{
				Kind:    domain.KindTransport,
				Market:  market,
				Message: fmt.Sprintf("página %d: %v", out.Pages+1, err),
			})
			break
		}
		out.Pages++
		for _, r := range page.Records {
			r.Market = market
			records = append(records, r)
		}
		log.Debug().Int("page", out.Pages).Int("records", len(page.Records)).Msg("página recibida")

		if page.NextToken == "" {
			out.Completed = true
			break
		}
		if seen[page.NextToken] {
			log.Warn().Str("next_token", page.NextToken).Msg("token de paginación repetido")
			out.Failures = append(out.Failures, entity.Failure{
				Kind:    domain.KindTransport,
				Market:  market,
				Message: "token de paginación repetido: " + page.NextToken,
			})
			break
		}
		seen[page.NextToken] = true
		token = page.NextToken
	}

	out.Records = len(records)
	log.Info().Int("records", out.Records).Int("pages", out.Pages).Bool("completed", out.Completed).Msg("mercado recolectado")
	return records, out
}
