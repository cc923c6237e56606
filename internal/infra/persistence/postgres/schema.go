package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema lists the statements that create the tables and stored procedures
// the repository expects. Procedure OUT parameters require Postgres 14+.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS person (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		job TEXT NOT NULL,
		is_adult BOOLEAN NOT NULL,
		favorite_number SMALLINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS organization (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		phone TEXT NOT NULL,
		ceo_id INTEGER NOT NULL REFERENCES person(id)
	)`,
	`CREATE OR REPLACE PROCEDURE select_person_by_id(
		INOUT p_id INTEGER,
		OUT p_name TEXT,
		OUT p_job TEXT,
		OUT p_is_adult BOOLEAN,
		OUT p_favorite_number SMALLINT
	) LANGUAGE plpgsql AS $$
	BEGIN
		SELECT id, name, job, is_adult, favorite_number
		INTO p_id, p_name, p_job, p_is_adult, p_favorite_number
		FROM person WHERE id = p_id;
	END
	$$`,
	`CREATE OR REPLACE PROCEDURE insert_person(
		INOUT p_name TEXT,
		INOUT p_job TEXT,
		INOUT p_is_adult BOOLEAN,
		INOUT p_favorite_number SMALLINT,
		OUT p_id INTEGER
	) LANGUAGE plpgsql AS $$
	BEGIN
		INSERT INTO person (name, job, is_adult, favorite_number)
		VALUES (p_name, p_job, p_is_adult, p_favorite_number)
		RETURNING id, name, job, is_adult, favorite_number
		INTO p_id, p_name, p_job, p_is_adult, p_favorite_number;
	END
	$$`,
}

// ApplySchema executes Schema in order. It is idempotent.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
