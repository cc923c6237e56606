// Package sqlite opens the embedded repository backend: a pure-Go SQLite
// database holding the person and organization tables, driven through the
// same executor and statement model as Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"peopledb/internal/infra/persistence/sqlexec"
	"peopledb/internal/infra/persistence/sqlstore"
	"strings"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const defaultPath = "peopledb.db"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS person (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		job TEXT NOT NULL,
		is_adult BOOLEAN NOT NULL,
		favorite_number SMALLINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS organization (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		phone TEXT NOT NULL,
		ceo_id INTEGER NOT NULL
	)`,
}

const (
	selectPerson       = "SELECT id, name, job, is_adult, favorite_number FROM person"
	selectOrganization = "SELECT id, name, address, phone, ceo_id FROM organization"
)

// Statements returns the SQLite statement set. SQLite has no stored
// procedures, so every operation is a direct query.
func Statements() sqlstore.Statements {
	return sqlstore.Statements{
		Name:            "sqlite",
		ListPeople:      sqlstore.Query{SQL: selectPerson + " ORDER BY id ASC"},
		ListPeopleLimit: sqlstore.Query{SQL: selectPerson + " ORDER BY id ASC LIMIT ?"},
		PersonByID:      sqlstore.Query{SQL: selectPerson + " WHERE id = ?"},
		OrganizationCEO: sqlstore.Query{SQL: selectPerson + " WHERE id = (SELECT ceo_id FROM organization WHERE id = ?)"},
		InsertPerson: sqlstore.Query{SQL: "INSERT INTO person (name, job, is_adult, favorite_number) VALUES (?, ?, ?, ?) " +
			"RETURNING id, name, job, is_adult, favorite_number"},
		InsertOrganization: sqlstore.Query{SQL: "INSERT INTO organization (name, address, phone, ceo_id) VALUES (?, ?, ?, ?) " +
			"RETURNING id, name, address, phone, ceo_id"},
		ListOrganizations: sqlstore.Query{SQL: selectOrganization + " ORDER BY id ASC"},
	}
}

// Open opens (creating if needed) the database at path, ensures the tables
// exist, and returns a repository over it. An in-memory database lives on a
// single connection, so its pool is pinned to one.
func Open(ctx context.Context, path string, cfg sqlexec.PoolConfig) (*sqlstore.Store, error) {
	if path == "" {
		path = defaultPath
	}
	if isMemory(path) {
		cfg.MaxConns, cfg.MaxIdle, cfg.ConnMaxLifetime = 1, 1, 0
	} else if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pool := sqlexec.NewPool(db, cfg)
	if err := createTables(ctx, db); err != nil {
		_ = pool.Close()
		return nil, err
	}
	store, err := sqlstore.New(pool, Statements())
	if err != nil {
		_ = pool.Close()
		return nil, err
	}
	return store, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

func isMemory(path string) bool {
	return path == MemoryPath || strings.HasPrefix(path, "file::memory:")
}
