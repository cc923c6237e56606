package postgres

import (
	"database/sql"
	"fmt"
	"peopledb/internal/infra/persistence/rowmap"
	"peopledb/internal/infra/persistence/sqlstore"
)

const (
	// StatementsDirect reads and writes the tables with plain SQL.
	StatementsDirect = "direct"
	// StatementsProcedure routes person lookups and inserts through stored procedures.
	StatementsProcedure = "procedure"
)

const (
	selectPerson       = "SELECT id, name, job, is_adult, favorite_number FROM person"
	selectOrganization = "SELECT id, name, address, phone, ceo_id FROM organization"
)

// Direct returns the plain-query statement set.
func Direct() sqlstore.Statements {
	return sqlstore.Statements{
		Name:            "postgres-" + StatementsDirect,
		ListPeople:      sqlstore.Query{SQL: selectPerson + " ORDER BY id ASC"},
		ListPeopleLimit: sqlstore.Query{SQL: selectPerson + " ORDER BY id ASC LIMIT $1"},
		PersonByID:      sqlstore.Query{SQL: selectPerson + " WHERE id = $1"},
		OrganizationCEO: sqlstore.Query{SQL: selectPerson + " WHERE id = (SELECT ceo_id FROM organization WHERE id = $1)"},
		InsertPerson: sqlstore.Query{SQL: "INSERT INTO person (name, job, is_adult, favorite_number) VALUES ($1, $2, $3, $4) " +
			"RETURNING id, name, job, is_adult, favorite_number"},
		InsertOrganization: sqlstore.Query{SQL: "INSERT INTO organization (name, address, phone, ceo_id) VALUES ($1, $2, $3, $4) " +
			"RETURNING id, name, address, phone, ceo_id"},
		ListOrganizations: sqlstore.Query{SQL: selectOrganization + " ORDER BY id ASC"},
	}
}

// Procedures returns the statement set that calls select_person_by_id and
// insert_person. Output parameters are bound as typed NULLs and read back
// through the p_* alias table.
func Procedures() sqlstore.Statements {
	s := Direct()
	s.Name = "postgres-" + StatementsProcedure
	s.PersonByID = sqlstore.Query{
		SQL:       "CALL select_person_by_id($1, $2, $3, $4, $5)",
		Outputs:   []any{sql.Null[string]{}, sql.Null[string]{}, sql.Null[bool]{}, sql.Null[int16]{}},
		Aliases:   rowmap.PersonOutputAliases,
		Procedure: true,
	}
	s.InsertPerson = sqlstore.Query{
		SQL:       "CALL insert_person($1, $2, $3, $4, $5)",
		Outputs:   []any{sql.Null[int32]{}},
		Aliases:   rowmap.PersonOutputAliases,
		Procedure: true,
	}
	return s
}

// StatementsByName resolves a configured statement set name.
func StatementsByName(name string) (sqlstore.Statements, error) {
	switch name {
	case "", StatementsDirect:
		return Direct(), nil
	case StatementsProcedure:
		return Procedures(), nil
	default:
		return sqlstore.Statements{}, fmt.Errorf("unknown postgres statement set %q", name)
	}
}
