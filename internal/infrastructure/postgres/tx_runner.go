package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-sync/internal/application/ports"
	"github.com/jhoicas/inventario-sync/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool   *pgxpool.Pool
	tables Tables
	chunk  int
}

// NewTxRunner construye el runner con el pool, las tablas del esquema y el tamaño de bloque de upsert.
func NewTxRunner(pool *pgxpool.Pool, tables Tables, chunk int) *TxRunner {
	return &TxRunner{pool: pool, tables: tables, chunk: chunk}
}

// Repositories repositorios atados a q (pool o tx).
func (r *TxRunner) Repositories(q Querier) repository.TxRepositories {
	return repository.TxRepositories{
		Snapshots:   NewSnapshotRepository(q, r.tables, r.chunk),
		Archive:     NewArchiveRepository(q, r.tables),
		Summary:     NewSummaryRepository(q, r.tables),
		UOM:         NewUOMRepository(q, r.tables, r.chunk),
		Identifiers: NewIdentifierRepository(q, r.tables),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(r.Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
