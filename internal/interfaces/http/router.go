package http

import (
	"github.com/gofiber/fiber/v2"

	pkgjwt "github.com/jhoicas/inventario-sync/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Runs      *RunHandler
	Reports   *ReportHandler
	JWTSecret string
	AppName   string
}

// Router registra las rutas de la API de operación.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	readers := RequireRole(pkgjwt.RoleOperator, pkgjwt.RoleViewer)

	runs := api.Group("/runs")
	runs.Post("/snapshot", RequireRole(pkgjwt.RoleOperator), deps.Runs.RunSnapshot)
	runs.Post("/summary", RequireRole(pkgjwt.RoleOperator), deps.Runs.RunSummary)
	runs.Get("/last", readers, deps.Runs.LastRuns)

	api.Post("/uom/refresh", RequireRole(pkgjwt.RoleOperator), deps.Runs.RefreshUOM)

	if deps.Reports != nil {
		api.Get("/summary", readers, deps.Reports.Summary)
		api.Get("/archive", readers, deps.Reports.Archive)
	}
}
