package snapshot

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-sync/internal/application/uom"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/inventory"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// timestampLayouts formatos aceptados para lastUpdatedTime; sin zona se asume UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp interpreta el texto de última actualización y lo devuelve en UTC
// con precisión de microsegundos (la de TIMESTAMP en Postgres).
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("timestamp no reconocido: %q", raw)
}

// Normalizer convierte registros crudos en filas del snapshot.
type Normalizer struct {
	mapping  uom.Mapping
	applyUOM bool
	clock    Clock
	log      *logger.Logger
}

// NewNormalizer construye el normalizer. Con applyUOM=false el factor es siempre 1.
func NewNormalizer(mapping uom.Mapping, applyUOM bool, clock Clock, log *logger.Logger) *Normalizer {
	if clock == nil {
		clock = time.Now
	}
	return &Normalizer{mapping: mapping, applyUOM: applyUOM, clock: clock, log: log.Component("normalizer")}
}

// Normalize aplica el factor UOM a las siete cantidades y fija el timestamp de cada
// fila. El timestamp del lote se toma una sola vez y lo comparten todas las filas sin
// fecha válida. Un timestamp ilegible no descarta la fila.
func (n *Normalizer) Normalize(records []entity.InventoryRecord) ([]entity.SnapshotRow, []entity.Failure) {
	batch := n.clock().UTC().Truncate(time.Microsecond)
	rows := make([]entity.SnapshotRow, 0, len(records))
	var failures []entity.Failure

	for _, r := range records {
		factor := inventory.DefaultFactor
		if n.applyUOM {
			factor = n.mapping.Factor(r.ASIN, r.SellerSKU)
		}

		ts := batch
		if strings.TrimSpace(r.LastUpdated) != "" {
			parsed, err := ParseTimestamp(r.LastUpdated)
			if err != nil {
				n.log.Warn().Str("market", r.Market).Str("sku", r.SellerSKU).Str("raw", r.LastUpdated).Msg("timestamp inválido, se usa el del lote")
				failures = append(failures, entity.Failure{
					Kind:    domain.KindParse,
					Market:  r.Market,
					SKU:     r.SellerSKU,
					Message: err.Error(),
				})
			} else {
				ts = parsed
			}
		}

		rows = append(rows, entity.SnapshotRow{
			SellerSKU:         r.SellerSKU,
			Market:            r.Market,
			SnapshotTimestamp: ts,
			Quantities:        inventory.ApplyFactor(r.Quantities, factor),
		})
	}
	return rows, failures
}

// BatchObservations ASIN vistos en los registros (SKU normalizado), para el backfill.
func BatchObservations(records []entity.InventoryRecord, at time.Time) []entity.IdentifierObservation {
	var obs []entity.IdentifierObservation
	for _, r := range records {
		if !r.HasIdentifier() || r.SellerSKU == "" {
			continue
		}
		obs = append(obs, entity.IdentifierObservation{
			SellerSKU:  inventory.NormalizeSKU(r.SellerSKU),
			Market:     r.Market,
			ASIN:       r.ASIN,
			ObservedAt: at,
		})
	}
	return obs
}
