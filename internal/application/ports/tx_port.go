package ports

import (
	"context"

	"github.com/jhoicas/inventario-sync/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}

// RunLocker serializa las ejecuciones que tocan el snapshot. Dos ejecuciones
// concurrentes sobre la misma tabla no son seguras.
type RunLocker interface {
	// TryLock devuelve domain.ErrRunInProgress si otra ejecución tiene el lock.
	TryLock(ctx context.Context, name string) (release func(), err error)
}

// SnapshotLockName nombre del lock compartido por el pipeline y el resumen.
const SnapshotLockName = "inventory_snapshot"
