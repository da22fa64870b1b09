package summary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sync/internal/application/ports"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// Options parámetros del resumen.
type Options struct {
	ExportDir string
	// ApplyFactor multiplica por el factor UOM al agregar. Solo cuando el pipeline
	// guardó cantidades sin convertir.
	ApplyFactor bool
}

// Summarizer archiva el snapshot, lo vacía y recalcula inventory_summary.
type Summarizer struct {
	tx        ports.TxRunner
	lock      ports.RunLocker
	exporters []Exporter
	opts      Options
	clock     func() time.Time
	log       *logger.Logger
}

// NewSummarizer construye el caso de uso. lock puede ser nil (tests).
func NewSummarizer(tx ports.TxRunner, lock ports.RunLocker, exporters []Exporter, opts Options, clock func() time.Time, log *logger.Logger) *Summarizer {
	if clock == nil {
		clock = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "exports"
	}
	return &Summarizer{tx: tx, lock: lock, exporters: exporters, opts: opts, clock: clock, log: log.Component("summarizer")}
}

// ExportPath ruta del archivo de resumen de un día y formato.
func ExportPath(dir, runDate, format string) string {
	return filepath.Join(dir, fmt.Sprintf("inventory_summary_%s.%s", runDate, format))
}

// Run ejecuta carga, archivo, limpieza, último por SKU, cruce UOM, agregación y
// persistencia en una sola transacción. Los archivos se escriben a temporales y se
// publican tras reemplazar el resumen; si el commit falla se eliminan y vuelve el
// archivo anterior del mismo día, si lo había.
// Con el snapshot vacío devuelve domain.ErrNothingToProcess sin tocar nada.
func (s *Summarizer) Run(ctx context.Context) (*entity.SummaryReport, error) {
	started := s.clock().UTC()
	report := &entity.SummaryReport{
		RunID:     uuid.New().String(),
		RunDate:   started.Format("2006-01-02"),
		StartedAt: started,
	}
	log := s.log.Run(report.RunID)

	fail := func(err error) (*entity.SummaryReport, error) {
		report.Outcome = entity.OutcomeFailed
		report.Error = err.Error()
		report.FinishedAt = s.clock().UTC()
		log.Error().Err(err).Msg("resumen fallido")
		return report, err
	}

	if s.lock != nil {
		release, err := s.lock.TryLock(ctx, ports.SnapshotLockName)
		if err != nil {
			return fail(err)
		}
		defer release()
	}

	var staged []string
	var pubs []publication
	cleanup := func() {
		for _, p := range staged {
			_ = os.Remove(p)
		}
		restore(pubs)
	}

	err := s.tx.Run(ctx, func(repos repository.TxRepositories) error {
		rows, err := repos.Snapshots.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("leer snapshot: %w", err)
		}
		report.SnapshotRows = len(rows)
		if len(rows) == 0 {
			return domain.ErrNothingToProcess
		}

		if err := repos.Archive.EnsureTable(ctx); err != nil {
			return fmt.Errorf("crear histórico: %w", err)
		}
		archived, err := repos.Archive.ArchiveSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("archivar snapshot: %w", err)
		}
		report.ArchivedRows = archived
		if skipped := int64(len(rows)) - archived; skipped > 0 {
			log.Debug().Int64("skipped", skipped).Msg("filas ya archivadas omitidas")
		}
		if err := repos.Snapshots.Truncate(ctx); err != nil {
			return fmt.Errorf("vaciar snapshot: %w", err)
		}

		entries, err := repos.UOM.ListAll(ctx)
		if err != nil {
			return fmt.Errorf("leer product_uom: %w", err)
		}

		cleaned := Clean(rows)
		if n := countWithoutSKU(cleaned); n > 0 {
			log.Warn().Int("rows", n).Msg("filas sin SKU: se resumen como producto desconocido")
		}
		latest := RetainLatest(cleaned)
		report.RetainedRows = len(latest)
		summary := Aggregate(JoinUOM(latest, entries), s.opts.ApplyFactor)
		report.SummaryRows = len(summary)

		staged, err = s.stage(ctx, report.RunDate, summary)
		if err != nil {
			return err
		}
		if _, err := repos.Summary.Replace(ctx, summary); err != nil {
			return fmt.Errorf("reemplazar resumen: %w", err)
		}
		for len(staged) > 0 {
			pub, err := publish(staged[0])
			if err != nil {
				return err
			}
			pubs = append(pubs, pub)
			staged = staged[1:]
		}
		return nil
	})
	if errors.Is(err, domain.ErrNothingToProcess) {
		report.Outcome = entity.OutcomeNothingToProcess
		report.FinishedAt = s.clock().UTC()
		log.Warn().Msg("snapshot vacío, no hay nada que resumir")
		return report, domain.ErrNothingToProcess
	}
	if err != nil {
		cleanup()
		report.ArchivedRows = 0
		return fail(err)
	}

	published := make([]string, 0, len(pubs))
	for _, p := range pubs {
		if p.backup != "" {
			_ = os.Remove(p.backup)
		}
		published = append(published, p.final)
	}
	report.ExportPaths = published
	report.Outcome = entity.OutcomeCompleted
	report.FinishedAt = s.clock().UTC()
	log.Info().
		Int("snapshot_rows", report.SnapshotRows).
		Int64("archived", report.ArchivedRows).
		Int("summary_rows", report.SummaryRows).
		Strs("exports", published).
		Msg("resumen generado")
	return report, nil
}

const (
	tmpSuffix    = ".tmp"
	backupSuffix = ".bak"
)

// publication archivo publicado y, si existía, la copia del anterior del mismo día.
type publication struct {
	final  string
	backup string
}

// publish mueve el archivo previo a .bak y renombra el temporal a su ruta final.
func publish(tmp string) (publication, error) {
	pub := publication{final: tmp[:len(tmp)-len(tmpSuffix)]}
	if _, err := os.Stat(pub.final); err == nil {
		bak := pub.final + backupSuffix
		if err := os.Rename(pub.final, bak); err != nil {
			return publication{}, fmt.Errorf("respaldar %s: %w", pub.final, err)
		}
		pub.backup = bak
	}
	if err := os.Rename(tmp, pub.final); err != nil {
		if pub.backup != "" {
			_ = os.Rename(pub.backup, pub.final)
		}
		return publication{}, fmt.Errorf("publicar %s: %w", pub.final, err)
	}
	return pub, nil
}

// restore deshace publish: borra lo publicado y devuelve el archivo anterior.
func restore(pubs []publication) {
	for _, p := range pubs {
		_ = os.Remove(p.final)
		if p.backup != "" {
			_ = os.Rename(p.backup, p.final)
		}
	}
}

// stage escribe cada formato a <ruta final>.tmp.
func (s *Summarizer) stage(ctx context.Context, runDate string, rows []entity.SummaryRow) ([]string, error) {
	if len(s.exporters) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(s.opts.ExportDir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de exportación: %w", err)
	}
	var staged []string
	for _, exp := range s.exporters {
		tmp := ExportPath(s.opts.ExportDir, runDate, exp.Format()) + tmpSuffix
		if err := exp.Export(ctx, tmp, rows); err != nil {
			for _, p := range append(staged, tmp) {
				_ = os.Remove(p)
			}
			return nil, fmt.Errorf("exportar %s: %w", exp.Format(), err)
		}
		staged = append(staged, tmp)
	}
	return staged, nil
}
