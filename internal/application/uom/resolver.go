package uom

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-sync/internal/domain/repository"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// Resolver mantiene la tabla product_uom a partir del archivo tabular y expone
// el mapa de factores en memoria para la ejecución.
type Resolver struct {
	source Source
	repo   repository.UOMRepository
	log    *logger.Logger
}

// NewResolver construye el resolver.
func NewResolver(source Source, repo repository.UOMRepository, log *logger.Logger) *Resolver {
	return &Resolver{source: source, repo: repo, log: log.Component("uom_resolver")}
}

// Refresh lee el archivo, normaliza y hace upsert en product_uom.
// Un archivo mal formado es fatal (envuelve domain.ErrConfiguration); las filas malas se descartan.
func (r *Resolver) Refresh(ctx context.Context) (int, error) {
	table, err := r.source.ReadTable(ctx)
	if err != nil {
		return 0, fmt.Errorf("leer origen UOM %s: %w", r.source.Name(), err)
	}
	entries, dropped, err := ParseEntries(table)
	if err != nil {
		return 0, fmt.Errorf("parsear origen UOM %s: %w", r.source.Name(), err)
	}
	if dropped > 0 {
		r.log.Debug().Int("dropped", dropped).Str("source", r.source.Name()).Msg("filas UOM sin ASIN o SKU descartadas")
	}
	n, err := r.repo.Upsert(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("upsert product_uom: %w", err)
	}
	r.log.Info().Int("entries", len(entries)).Str("source", r.source.Name()).Msg("factores UOM actualizados")
	return n, nil
}

// Load lee product_uom completo a memoria.
func (r *Resolver) Load(ctx context.Context) (Mapping, error) {
	entries, err := r.repo.ListAll(ctx)
	if err != nil {
		return Mapping{}, fmt.Errorf("cargar product_uom: %w", err)
	}
	return NewMapping(entries), nil
}

// RefreshAndLoad actualiza la tabla desde el archivo y devuelve el mapa resultante.
func (r *Resolver) RefreshAndLoad(ctx context.Context) (Mapping, error) {
	if _, err := r.Refresh(ctx); err != nil {
		return Mapping{}, err
	}
	return r.Load(ctx)
}
