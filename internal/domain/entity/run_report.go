package entity

import (
	"time"

	"github.com/jhoicas/inventario-sync/internal/domain"
)

// Outcome resultado final de una ejecución.
type Outcome string

const (
	OutcomeCompleted        Outcome = "completed"
	OutcomeNothingToProcess Outcome = "nothing_to_process"
	OutcomeFailed           Outcome = "failed"
)

// Failure fallo no fatal registrado durante una ejecución (por mercado o por registro).
type Failure struct {
	Kind    domain.ErrorKind `json:"kind"`
	Market  string           `json:"market,omitempty"`
	SKU     string           `json:"sku,omitempty"`
	Message string           `json:"message"`
}

// MarketOutcome resultado de recolección y enriquecimiento de un mercado.
type MarketOutcome struct {
	Market    string    `json:"market"`
	Records   int       `json:"records"`
	Pages     int       `json:"pages"`
	Enriched  int       `json:"enriched"`
	Completed bool      `json:"completed"` // false si la paginación se cortó por error
	Failures  []Failure `json:"failures,omitempty"`
}

// SnapshotReport reporte de una ejecución del pipeline de snapshot.
type SnapshotReport struct {
	RunID        string          `json:"run_id"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
	Outcome      Outcome         `json:"outcome"`
	Markets      []MarketOutcome `json:"markets"`
	RowsUpserted int             `json:"rows_upserted"`
	Failures     []Failure       `json:"failures,omitempty"` // fallos de normalización
	Error        string          `json:"error,omitempty"`
}

// FailureCount total de fallos (mercados + normalización).
func (r *SnapshotReport) FailureCount() int {
	n := len(r.Failures)
	for _, m := range r.Markets {
		n += len(m.Failures)
	}
	return n
}

// SummaryReport reporte de una ejecución de archivo y resumen.
type SummaryReport struct {
	RunID        string    `json:"run_id"`
	RunDate      string    `json:"run_date"` // YYYY-MM-DD
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Outcome      Outcome   `json:"outcome"`
	SnapshotRows int       `json:"snapshot_rows"`
	ArchivedRows int64     `json:"archived_rows"`
	RetainedRows int       `json:"retained_rows"`
	SummaryRows  int       `json:"summary_rows"`
	ExportPaths  []string  `json:"export_paths,omitempty"`
	Error        string    `json:"error,omitempty"`
}
