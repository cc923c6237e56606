package core

import (
	"context"
	"fmt"
	"peopledb/internal/config"
	"peopledb/internal/infra/persistence/postgres"
	"peopledb/internal/infra/persistence/sqlite"
	"peopledb/internal/infra/persistence/sqlstore"
)

// OpenRepository opens the backend named by cfg.Storage.Driver:
//
//	sqlite:   embedded database at cfg.Storage.SQLitePath
//	postgres: server at cfg.Storage.PostgresDSN running the cfg.Storage.Statements set
func OpenRepository(ctx context.Context, cfg config.Config) (*sqlstore.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		return sqlite.Open(ctx, cfg.Storage.SQLitePath, cfg.Pool)
	case config.StoragePostgres:
		stmts, err := postgres.StatementsByName(cfg.Storage.Statements)
		if err != nil {
			return nil, err
		}
		return postgres.Open(ctx, cfg.Storage.PostgresDSN, cfg.Pool, stmts)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Storage.Driver)
	}
}
