package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual con
// el pool o dentro de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// DefaultSchema esquema de las tablas de inventario.
const DefaultSchema = "amazon_data"

// Tables nombres calificados (y escapados) de las tablas dentro del esquema.
type Tables struct {
	Schema     string
	Snapshot   string
	Archive    string
	UOM        string
	Summary    string
	Identifier string
}

// NewTables construye los nombres para un esquema; vacío usa DefaultSchema.
func NewTables(schema string) Tables {
	if schema == "" {
		schema = DefaultSchema
	}
	q := func(name string) string { return pgx.Identifier{schema, name}.Sanitize() }
	return Tables{
		Schema:     schema,
		Snapshot:   q("inventory_snapshot"),
		Archive:    q("inventory_snapshot_archive"),
		UOM:        q("product_uom"),
		Summary:    q("inventory_summary"),
		Identifier: q("sku_identifier"),
	}
}

// chunks parte s en bloques de a lo sumo size elementos.
func chunks[T any](s []T, size int) [][]T {
	if size <= 0 || len(s) <= size {
		if len(s) == 0 {
			return nil
		}
		return [][]T{s}
	}
	out := make([][]T, 0, (len(s)+size-1)/size)
	for start := 0; start < len(s); start += size {
		end := start + size
		if end > len(s) {
			end = len(s)
		}
		out = append(out, s[start:end])
	}
	return out
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isUndefinedTable tabla inexistente (42P01).
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
