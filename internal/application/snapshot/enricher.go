package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// Enricher completa el ASIN de los registros que no lo traen.
type Enricher struct {
	factory LookupFactory
	log     *logger.Logger
}

// NewEnricher construye el enricher.
func NewEnricher(factory LookupFactory, log *logger.Logger) *Enricher {
	return &Enricher{factory: factory, log: log.Component("enricher")}
}

// Enrich devuelve siempre todos los registros, en el mismo orden. Un lookup fallido
// deja el registro sin ASIN y se registra como fallo; si el cliente del mercado no se
// puede construir se devuelven los registros originales con un fallo de mercado.
func (e *Enricher) Enrich(ctx context.Context, market string, records []entity.InventoryRecord) ([]entity.InventoryRecord, int, []entity.Failure) {
	missing := 0
	for _, r := range records {
		if !r.HasIdentifier() {
			missing++
		}
	}
	if missing == 0 {
		return records, 0, nil
	}

	log := e.log.Market(market)
	lookup, err := e.factory.ForMarket(market)
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo crear el cliente de lookup")
		kind := domain.KindTransport
		if errors.Is(err, domain.ErrConfiguration) {
			kind = domain.KindConfiguration
		}
		return records, 0, []entity.Failure{{
			Kind:    kind,
			Market:  market,
			Message: fmt.Sprintf("cliente de lookup: %v", err),
		}}
	}

	out := make([]entity.InventoryRecord, len(records))
	copy(out, records)
	var failures []entity.Failure
	enriched := 0
	for i := range out {
		if out[i].HasIdentifier() {
			continue
		}
		asin, err := lookup.LookupIdentifier(ctx, out[i].SellerSKU, market)
		if err != nil {
			log.Warn().Err(err).Str("sku", out[i].SellerSKU).Msg("lookup de ASIN falló")
			failures = append(failures, entity.Failure{
				Kind:    domain.KindTransport,
				Market:  market,
				SKU:     out[i].SellerSKU,
				Message: err.Error(),
			})
			continue
		}
		if asin == "" {
			continue
		}
		out[i].ASIN = asin
		enriched++
	}
	log.Info().Int("missing", missing).Int("enriched", enriched).Msg("enriquecimiento terminado")
	return out, enriched, failures
}
