package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// schemaStatements DDL idempotente del esquema de inventario.
func schemaStatements(t Tables) []string {
	return []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, pgx.Identifier{t.Schema}.Sanitize()),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			master_sku   TEXT NOT NULL,
			seller_sku   TEXT NOT NULL,
			uom_factor   NUMERIC NOT NULL DEFAULT 1 CHECK (uom_factor > 0),
			product_name TEXT,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (master_sku, seller_sku)
		)`, t.UOM),
		snapshotTableDDL(t.Snapshot, ""),
		archiveTableDDL(t),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			country          TEXT NOT NULL,
			asin             TEXT NOT NULL,
			product_name     TEXT NOT NULL,
			quantity_on_hand BIGINT NOT NULL,
			PRIMARY KEY (country, asin, product_name)
		)`, t.Summary),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seller_sku  TEXT NOT NULL,
			country     TEXT NOT NULL,
			asin        TEXT NOT NULL,
			observed_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (seller_sku, country, asin)
		)`, t.Identifier),
	}
}

func snapshotTableDDL(table, extra string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seller_sku                TEXT NOT NULL,
			country                   TEXT NOT NULL,
			snapshot_timestamp        TIMESTAMPTZ NOT NULL,
			fulfillable_quantity      BIGINT NOT NULL DEFAULT 0,
			unfulfillable_quantity    BIGINT NOT NULL DEFAULT 0,
			inbound_working_quantity  BIGINT NOT NULL DEFAULT 0,
			inbound_shipped_quantity  BIGINT NOT NULL DEFAULT 0,
			inbound_received_quantity BIGINT NOT NULL DEFAULT 0,
			reserved_quantity         BIGINT NOT NULL DEFAULT 0,
			total_quantity            BIGINT NOT NULL DEFAULT 0,%s
			PRIMARY KEY (seller_sku, country, snapshot_timestamp)
		)`, table, extra)
}

func archiveTableDDL(t Tables) string {
	return snapshotTableDDL(t.Archive, `
			snapshot_date             DATE NOT NULL,
			archived_at               TIMESTAMPTZ NOT NULL DEFAULT now(),`)
}

// EnsureSchema crea el esquema y las tablas si no existen.
func EnsureSchema(ctx context.Context, q Querier, t Tables) error {
	for _, stmt := range schemaStatements(t) {
		if _, err := q.Exec(ctx, stmt); err != nil {
			// Dos procesos creando la misma tabla a la vez chocan en pg_type.
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("ensure schema %s: %w", t.Schema, err)
		}
	}
	return nil
}
