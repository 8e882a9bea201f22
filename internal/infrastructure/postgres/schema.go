package postgres

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pedidos (
	id         TEXT PRIMARY KEY,
	nombre     TEXT NOT NULL,
	cliente    TEXT NOT NULL DEFAULT '',
	estado     TEXT NOT NULL DEFAULT 'nuevo',
	notas      TEXT NOT NULL DEFAULT '',
	seccion    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pedidos_seccion_updated ON pedidos (seccion, updated_at DESC);
CREATE INDEX IF NOT EXISTS idx_pedidos_updated ON pedidos (updated_at DESC);
`

// EnsureSchema crea la tabla de pedidos si no existe.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear esquema pedidos: %w", err)
	}
	return nil
}
