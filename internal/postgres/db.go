package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Migrate creates the working tables when they are missing. The items
// catalog is curated externally; we only guarantee its shape.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pedidos (
			id               TEXT PRIMARY KEY,
			item_name        TEXT NOT NULL,
			recipe_id        TEXT NOT NULL,
			level            TEXT NOT NULL,
			quality          TEXT NOT NULL,
			cantidad         INT  NOT NULL CHECK (cantidad > 0),
			oficio_requerido TEXT NOT NULL,
			solicitante_id   TEXT NOT NULL,
			asignado_a_id    TEXT,
			estatus          TEXT NOT NULL,
			fecha_solicitud  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS pedidos_oficio_idx ON pedidos (oficio_requerido, estatus, fecha_solicitud DESC)`,
		`CREATE INDEX IF NOT EXISTS pedidos_solicitante_idx ON pedidos (solicitante_id, fecha_solicitud DESC)`,
		`CREATE INDEX IF NOT EXISTS pedidos_asignado_idx ON pedidos (asignado_a_id, fecha_solicitud DESC)`,
		`CREATE TABLE IF NOT EXISTS inventario (
			name     TEXT PRIMARY KEY,
			quantity INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			recipe_id  TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			category   TEXT NOT NULL,
			type       TEXT NOT NULL,
			profession TEXT NOT NULL,
			variations JSONB NOT NULL DEFAULT '[]'
		)`,
		`CREATE TABLE IF NOT EXISTS usuarios (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
