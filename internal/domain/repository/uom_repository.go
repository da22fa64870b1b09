package repository

import (
	"context"

	"github.com/jhoicas/inventario-sync/internal/domain/entity"
)

// UOMRepository define el puerto de la tabla product_uom.
type UOMRepository interface {
	// Upsert inserta o actualiza por (master_sku, seller_sku).
	Upsert(ctx context.Context, entries []entity.UOMEntry) (int, error)
	ListAll(ctx context.Context) ([]entity.UOMEntry, error)
}

// IdentifierRepository guarda los ASIN observados por SKU (para el backfill del archivo UOM).
type IdentifierRepository interface {
	Record(ctx context.Context, obs []entity.IdentifierObservation) (int, error)
	// LatestBySKU devuelve el ASIN más reciente por seller_sku.
	LatestBySKU(ctx context.Context) (map[string]string, error)
}
