// Package postgres opens the Postgres-backed repository: a pgx connection pool
// behind database/sql, running either the direct-query or the stored-procedure
// statement set.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"peopledb/internal/infra/persistence/sqlexec"
	"peopledb/internal/infra/persistence/sqlstore"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	defaultDriver = "pgx"
	// Default DSN targets a local development database; override via env.
	defaultDSN = "postgres://localhost/peopledb?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Open connects to Postgres using dsn (falls back to defaultDSN), verifies the
// connection, and returns a repository running stmts on a pool bounded by cfg.
func Open(ctx context.Context, dsn string, cfg sqlexec.PoolConfig, stmts sqlstore.Statements) (*sqlstore.Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	store, err := sqlstore.New(sqlexec.NewPool(db, cfg), stmts)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
