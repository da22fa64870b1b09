package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-sync/internal/application/ports"
	"github.com/jhoicas/inventario-sync/internal/application/uom"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// Options parámetros del pipeline.
type Options struct {
	Markets           []string
	EnableEnrichment  bool
	EnableUOM         bool
	MarketConcurrency int // <= 1 secuencial
}

// PipelineUseCase orquesta una ejecución del snapshot:
// factores UOM, recolección y enriquecimiento por mercado, normalización y upsert.
type PipelineUseCase struct {
	uom       UOMLoader
	collector *Collector
	enricher  *Enricher
	tx        ports.TxRunner
	lock      ports.RunLocker
	opts      Options
	clock     Clock
	log       *logger.Logger
}

// NewPipelineUseCase construye el caso de uso. lock puede ser nil (tests).
func NewPipelineUseCase(
	uomLoader UOMLoader,
	collector *Collector,
	enricher *Enricher,
	tx ports.TxRunner,
	lock ports.RunLocker,
	opts Options,
	clock Clock,
	log *logger.Logger,
) *PipelineUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &PipelineUseCase{
		uom:       uomLoader,
		collector: collector,
		enricher:  enricher,
		tx:        tx,
		lock:      lock,
		opts:      opts,
		clock:     clock,
		log:       log.Component("snapshot_pipeline"),
	}
}

// Run ejecuta el pipeline completo. Devuelve siempre el reporte; con cero registros
// recolectados el error es domain.ErrNothingToProcess y no se escribe nada.
func (uc *PipelineUseCase) Run(ctx context.Context) (*entity.SnapshotReport, error) {
	report := &entity.SnapshotReport{RunID: uuid.New().String(), StartedAt: uc.clock().UTC()}
	log := uc.log.Run(report.RunID)

	fail := func(err error) (*entity.SnapshotReport, error) {
		report.Outcome = entity.OutcomeFailed
		report.Error = err.Error()
		report.FinishedAt = uc.clock().UTC()
		log.Error().Err(err).Msg("ejecución de snapshot fallida")
		return report, err
	}

	if uc.lock != nil {
		release, err := uc.lock.TryLock(ctx, ports.SnapshotLockName)
		if err != nil {
			return fail(err)
		}
		defer release()
	}

	mapping := uom.NewMapping(nil)
	if uc.opts.EnableUOM {
		m, err := uc.uom.RefreshAndLoad(ctx)
		if err != nil {
			return fail(fmt.Errorf("factores UOM: %w", err))
		}
		mapping = m
		log.Info().Int("entries", mapping.Len()).Msg("factores UOM cargados")
	}

	records, markets := uc.collectMarkets(ctx)
	report.Markets = markets
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if len(records) == 0 {
		report.Outcome = entity.OutcomeNothingToProcess
		report.FinishedAt = uc.clock().UTC()
		log.Warn().Int("failures", report.FailureCount()).Msg("no se recolectaron registros")
		return report, domain.ErrNothingToProcess
	}

	normalizer := NewNormalizer(mapping, uc.opts.EnableUOM, uc.clock, uc.log)
	rows, failures := normalizer.Normalize(records)
	report.Failures = failures
	observations := BatchObservations(records, uc.clock().UTC().Truncate(time.Microsecond))

	err := uc.tx.Run(ctx, func(repos repository.TxRepositories) error {
		n, err := repos.Snapshots.Upsert(ctx, rows)
		if err != nil {
			return err
		}
		report.RowsUpserted = n
		if len(observations) > 0 {
			if _, err := repos.Identifiers.Record(ctx, observations); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		report.RowsUpserted = 0
		return fail(fmt.Errorf("guardar snapshot: %w", err))
	}

	report.Outcome = entity.OutcomeCompleted
	report.FinishedAt = uc.clock().UTC()
	log.Info().
		Int("rows", report.RowsUpserted).
		Int("failures", report.FailureCount()).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("snapshot guardado")
	return report, nil
}

type marketResult struct {
	records []entity.InventoryRecord
	outcome entity.MarketOutcome
}

// collectMarkets recolecta y enriquece cada mercado. Los resultados se unen en el
// orden configurado aunque se procesen en paralelo.
func (uc *PipelineUseCase) collectMarkets(ctx context.Context) ([]entity.InventoryRecord, []entity.MarketOutcome) {
	results := make([]marketResult, len(uc.opts.Markets))

	var g errgroup.Group
	limit := uc.opts.MarketConcurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, market := range uc.opts.Markets {
		g.Go(func() error {
			results[i] = uc.processMarket(ctx, market)
			return nil
		})
	}
	_ = g.Wait()

	var records []entity.InventoryRecord
	outcomes := make([]entity.MarketOutcome, 0, len(results))
	for _, r := range results {
		records = append(records, r.records...)
		outcomes = append(outcomes, r.outcome)
	}
	return records, outcomes
}

func (uc *PipelineUseCase) processMarket(ctx context.Context, market string) marketResult {
	records, outcome := uc.collector.Collect(ctx, market)
	if uc.opts.EnableEnrichment && uc.enricher != nil && len(records) > 0 {
		var failures []entity.Failure
		records, outcome.Enriched, failures = uc.enricher.Enrich(ctx, market, records)
		outcome.Failures = append(outcome.Failures, failures...)
	}
	return marketResult{records: records, outcome: outcome}
}
