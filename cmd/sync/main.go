package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/jhoicas/inventario-sync/internal/bootstrap"
	"github.com/jhoicas/inventario-sync/internal/domain"
	"github.com/jhoicas/inventario-sync/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-sync/pkg/config"
	"github.com/jhoicas/inventario-sync/pkg/logger"
)

const usage = "uso: sync <snapshot|summary|uom-refresh|uom-backfill|run-all>"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	os.Exit(run(os.Args[1]))
}

func run(command string) int {
	_ = godotenv.Load() // .env opcional en local

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		return 1
	}

	// stdout queda para el reporte JSON; los logs van a stderr.
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("configuración inválida")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{AppName: cfg.App.Name + "-cli"})
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		return 1
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool, postgres.NewTables(cfg.DB.Schema)); err != nil {
		log.Error().Err(err).Msg("asegurar esquema")
		return 1
	}

	comp, err := bootstrap.Build(cfg, pool, log)
	if err != nil {
		log.Error().Err(err).Msg("armar componentes")
		return 1
	}

	log.Info().Str("command", command).Str("env", cfg.App.Env).Msg("iniciando")

	switch command {
	case "snapshot":
		report, err := comp.Pipeline.Run(ctx)
		return finish(log, report, err)
	case "summary":
		report, err := comp.Summarizer.Run(ctx)
		return finish(log, report, err)
	case "uom-refresh":
		n, err := comp.Resolver.Refresh(ctx)
		return finish(log, map[string]int{"entries": n}, err)
	case "uom-backfill":
		res, err := comp.Backfiller.Backfill(ctx, comp.BackfillOutput)
		return finish(log, res, err)
	case "run-all":
		snap, err := comp.Pipeline.Run(ctx)
		if code := finish(log, snap, err); code != 0 {
			return code
		}
		sum, err := comp.Summarizer.Run(ctx)
		return finish(log, sum, err)
	default:
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
}

// finish imprime el reporte y traduce el error a código de salida.
// "Nada que procesar" es un resultado válido: sale con 0.
func finish(log *logger.Logger, report any, err error) int {
	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(report); encErr != nil {
			log.Error().Err(encErr).Msg("imprimir reporte")
		}
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrNothingToProcess):
		log.Warn().Msg("nada que procesar")
		return 0
	case errors.Is(err, domain.ErrRunInProgress):
		log.Warn().Err(err).Msg("ejecución omitida")
		return 3
	default:
		log.Error().Err(err).Msg("ejecución fallida")
		return 1
	}
}
