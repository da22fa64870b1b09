package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/domain/entity"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

// SummaryLister lee el resumen vigente.
type SummaryLister interface {
	List(ctx context.Context) ([]entity.SummaryRow, error)
}

// ArchiveLister lee el histórico de un día.
type ArchiveLister interface {
	ListByDate(ctx context.Context, date time.Time) ([]entity.ArchiveRow, error)
}

// ReportHandler consultas de solo lectura sobre resumen e histórico.
type ReportHandler struct {
	summaries SummaryLister
	archive   ArchiveLister
	log       *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(summaries SummaryLister, archive ArchiveLister, log *logger.Logger) *ReportHandler {
	return &ReportHandler{summaries: summaries, archive: archive, log: log}
}

// Summary godoc
// @Summary      Resumen de inventario vigente
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   entity.SummaryRow
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	rows, err := h.summaries.List(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Msg("leer resumen")
		return errorJSON(c, "INTERNAL", err)
	}
	if len(rows) == 0 {
		return errorJSON(c, "NOT_FOUND", fmt.Errorf("%w: todavía no hay resumen", domain.ErrNotFound))
	}
	return c.JSON(rows)
}

// Archive godoc
// @Summary      Histórico de un día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  true  "Fecha YYYY-MM-DD (UTC)"
// @Success      200  {array}   entity.ArchiveRow
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/archive [get]
func (h *ReportHandler) Archive(c *fiber.Ctx) error {
	raw := c.Query("date")
	if raw == "" {
		return errorJSON(c, "VALIDATION", fmt.Errorf("%w: date es requerido", domain.ErrInvalidInput))
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return errorJSON(c, "VALIDATION", fmt.Errorf("%w: date debe ser YYYY-MM-DD", domain.ErrInvalidInput))
	}
	rows, err := h.archive.ListByDate(c.UserContext(), date)
	if err != nil {
		h.log.Error().Err(err).Str("date", raw).Msg("leer histórico")
		return errorJSON(c, "INTERNAL", err)
	}
	if len(rows) == 0 {
		return errorJSON(c, "NOT_FOUND", fmt.Errorf("%w: sin histórico para %s", domain.ErrNotFound, raw))
	}
	return c.JSON(rows)
}
