package postgres

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-sync/internal/application/ports"
	"github.com/jhoicas/inventario-sync/internal/domain"
)

var _ ports.RunLocker = (*RunLock)(nil)

// RunLock serializa ejecuciones con un advisory lock de sesión. El lock vive en una
// conexión dedicada del pool hasta que se llama release.
type RunLock struct {
	pool *pgxpool.Pool
}

// NewRunLock construye el lock sobre el pool.
func NewRunLock(pool *pgxpool.Pool) *RunLock {
	return &RunLock{pool: pool}
}

// advisoryKey clave int64 estable para un nombre de lock.
func advisoryKey(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}

// TryLock toma el lock sin esperar; si otra sesión lo tiene devuelve domain.ErrRunInProgress.
func (l *RunLock) TryLock(ctx context.Context, name string) (func(), error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	key := advisoryKey(name)
	var ok bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&ok); err != nil {
		conn.Release()
		return nil, fmt.Errorf("advisory lock %s: %w", name, err)
	}
	if !ok {
		conn.Release()
		return nil, fmt.Errorf("%w: %s", domain.ErrRunInProgress, name)
	}
	return func() {
		// Contexto propio: el de la ejecución puede estar cancelado.
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, key)
		conn.Release()
	}, nil
}
