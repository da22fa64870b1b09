package dto

import "github.com/jhoicas/inventario-sync/internal/domain/entity"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UOMRefreshResponse resultado de recargar la hoja de factores.
type UOMRefreshResponse struct {
	Entries int `json:"entries"`
}

// LastRunsResponse últimos reportes conocidos por el proceso (nil si aún no hubo ejecución).
type LastRunsResponse struct {
	Snapshot *entity.SnapshotReport `json:"snapshot"`
	Summary  *entity.SummaryReport  `json:"summary"`
}
