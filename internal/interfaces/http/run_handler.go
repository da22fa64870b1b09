package http

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sync/internal/application/dto"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// SnapshotRunner ejecuta el pipeline de snapshot.
type SnapshotRunner interface {
	Run(ctx context.Context) (*entity.SnapshotReport, error)
}

// SummaryRunner ejecuta archivo y resumen.
type SummaryRunner interface {
	Run(ctx context.Context) (*entity.SummaryReport, error)
}

// UOMRefresher recarga la hoja de factores en la base.
type UOMRefresher interface {
	Refresh(ctx context.Context) (int, error)
}

// RunHandler dispara ejecuciones y guarda en memoria el último reporte de cada tipo.
type RunHandler struct {
	snapshot SnapshotRunner
	summary  SummaryRunner
	uom      UOMRefresher
	log      *logger.Logger

	mu           sync.RWMutex
	lastSnapshot *entity.SnapshotReport
	lastSummary  *entity.SummaryReport
}

// NewRunHandler construye el handler.
func NewRunHandler(snapshot SnapshotRunner, summary SummaryRunner, uom UOMRefresher, log *logger.Logger) *RunHandler {
	return &RunHandler{snapshot: snapshot, summary: summary, uom: uom, log: log}
}

// RunSnapshot godoc
// @Summary      Ejecutar pipeline de snapshot
// @Tags         runs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.SnapshotReport
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/runs/snapshot [post]
func (h *RunHandler) RunSnapshot(c *fiber.Ctx) error {
	report, err := h.snapshot.Run(c.UserContext())
	if report != nil {
		h.mu.Lock()
		h.lastSnapshot = report
		h.mu.Unlock()
	}
	return h.respond(c, "snapshot", report, err)
}

// RunSummary godoc
// @Summary      Archivar snapshot y generar resumen
// @Tags         runs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  entity.SummaryReport
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/runs/summary [post]
func (h *RunHandler) RunSummary(c *fiber.Ctx) error {
	report, err := h.summary.Run(c.UserContext())
	if report != nil {
		h.mu.Lock()
		h.lastSummary = report
		h.mu.Unlock()
	}
	return h.respond(c, "summary", report, err)
}

// RefreshUOM godoc
// @Summary      Recargar factores UOM desde el archivo configurado
// @Tags         uom
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UOMRefreshResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/uom/refresh [post]
func (h *RunHandler) RefreshUOM(c *fiber.Ctx) error {
	n, err := h.uom.Refresh(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Msg("recarga UOM")
		return errorJSON(c, codeFor(err), err)
	}
	return c.JSON(dto.UOMRefreshResponse{Entries: n})
}

// LastRuns godoc
// @Summary      Últimos reportes de ejecución
// @Tags         runs
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LastRunsResponse
// @Router       /api/runs/last [get]
func (h *RunHandler) LastRuns(c *fiber.Ctx) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return c.JSON(dto.LastRunsResponse{Snapshot: h.lastSnapshot, Summary: h.lastSummary})
}

// respond traduce el resultado de una ejecución a HTTP. "Nada que procesar" no es un
// fallo del servicio: se devuelve 200 con el reporte.
func (h *RunHandler) respond(c *fiber.Ctx, kind string, report any, err error) error {
	switch {
	case err == nil, errors.Is(err, domain.ErrNothingToProcess):
		return c.JSON(report)
	case errors.Is(err, domain.ErrRunInProgress):
		return errorJSON(c, "RUN_IN_PROGRESS", err)
	}
	h.log.Error().Err(err).Str("run", kind).Msg("ejecución fallida")
	return errorJSON(c, codeFor(err), err)
}
