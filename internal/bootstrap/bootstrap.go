// Package bootstrap arma los casos de uso a partir de la configuración. Lo comparten
// la CLI (cmd/sync) y la API de operación (cmd/api).
package bootstrap

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-sync/internal/application/snapshot"
	"github.com/jhoicas/inventario-sync/internal/application/summary"
	"github.com/jhoicas/inventario-sync/internal/application/uom"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/export"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/marketplace"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/uomsource"
	"github.com/jhoicas/inventario-sync/pkg/config"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// SummaryTitle título del PDF de resumen.
const SummaryTitle = "Resumen de inventario FBA"

// marketplaceAdapter lo que el pipeline necesita del marketplace: páginas de inventario
// y lookup de ASIN por mercado.
type marketplaceAdapter interface {
	snapshot.MarketplaceClient
	snapshot.LookupFactory
}

// Components casos de uso listos para ejecutar.
type Components struct {
	Pipeline       *snapshot.PipelineUseCase
	Summarizer     *summary.Summarizer
	Resolver       *uom.Resolver
	Backfiller     *uom.Backfiller
	BackfillOutput string

	// Lecturas fuera de transacción para la API.
	Summaries *postgres.SummaryRepo
	Archive   *postgres.ArchiveRepo
}

// Build valida mercados y formatos y conecta adaptadores con casos de uso.
// No toca la base: el esquema se asegura aparte con postgres.EnsureSchema.
func Build(cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (*Components, error) {
	if err := marketplace.ValidateMarkets(cfg.Marketplace.Markets); err != nil {
		return nil, err
	}
	client, err := newMarketplace(cfg.Marketplace, log)
	if err != nil {
		return nil, err
	}
	source, err := uomsource.NewSource(cfg.UOM.SourcePath, cfg.UOM.SheetName, cfg.UOM.Encoding)
	if err != nil {
		return nil, err
	}
	exporters, err := export.FromFormats(cfg.Export.Formats, SummaryTitle)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTables(cfg.DB.Schema)
	txRunner := postgres.NewTxRunner(pool, tables, cfg.Pipeline.UpsertChunk)
	lock := postgres.NewRunLock(pool)

	resolver := uom.NewResolver(source, postgres.NewUOMRepository(pool, tables, cfg.Pipeline.UpsertChunk), log)
	backfiller := uom.NewBackfiller(source, postgres.NewIdentifierRepository(pool, tables), uomsource.NewCSVWriter(), log)

	pipeline := snapshot.NewPipelineUseCase(
		resolver,
		snapshot.NewCollector(client, cfg.Marketplace.PageSize, log),
		snapshot.NewEnricher(client, log),
		txRunner,
		lock,
		snapshot.Options{
			Markets:           cfg.Marketplace.Markets,
			EnableEnrichment:  cfg.Pipeline.EnableEnrichment,
			EnableUOM:         cfg.Pipeline.EnableUOM,
			MarketConcurrency: cfg.Pipeline.MarketConcurrency,
		},
		nil,
		log,
	)

	// Si el pipeline ya convirtió las cantidades, el resumen no vuelve a multiplicar.
	summarizer := summary.NewSummarizer(txRunner, lock, exporters, summary.Options{
		ExportDir:   cfg.Export.Dir,
		ApplyFactor: !cfg.Pipeline.EnableUOM,
	}, nil, log)

	return &Components{
		Pipeline:       pipeline,
		Summarizer:     summarizer,
		Resolver:       resolver,
		Backfiller:     backfiller,
		BackfillOutput: cfg.UOM.BackfillOutput,
		Summaries:      postgres.NewSummaryRepository(pool, tables),
		Archive:        postgres.NewArchiveRepository(pool, tables),
	}, nil
}

func newMarketplace(cfg config.MarketplaceConfig, log *logger.Logger) (marketplaceAdapter, error) {
	switch cfg.Adapter {
	case "mock":
		log.Warn().Msg("marketplace en modo mock: datos sintéticos")
		return marketplace.NewMockClient(0), nil
	case "http":
		return marketplace.NewHTTPClient(marketplace.Options{
			BaseURL:     cfg.BaseURL,
			AccessToken: cfg.AccessToken,
			SellerID:    cfg.SellerID,
			Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		})
	default:
		return nil, fmt.Errorf("%w: adaptador de marketplace desconocido %q", domain.ErrConfiguration, cfg.Adapter)
	}
}
