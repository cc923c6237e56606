package sqlstore

import (
	"fmt"
	"peopledb/internal/infra/persistence/rowmap"
)

// Query is one statement configuration: its text, the nullable values bound
// after the caller's inputs for output-parameter slots, and the alias table
// used to read its result columns.
type Query struct {
	SQL string
	// Outputs fill trailing output-parameter placeholders. Use typed nulls
	// such as sql.Null[string]{}.
	Outputs []any
	// Aliases is nil when result columns carry the declared field names.
	Aliases rowmap.Aliases
	// Procedure marks a CALL whose single output row is all NULL when
	// nothing matched.
	Procedure bool
}

func (q Query) args(inputs ...any) []any {
	if len(q.Outputs) == 0 {
		return inputs
	}
	out := make([]any, 0, len(inputs)+len(q.Outputs))
	out = append(out, inputs...)
	return append(out, q.Outputs...)
}

// Statements is the full set of statements a backend runs. Direct-query and
// stored-procedure backends differ only in these values.
type Statements struct {
	Name               string
	ListPeople         Query
	ListPeopleLimit    Query
	PersonByID         Query
	OrganizationCEO    Query
	InsertPerson       Query
	InsertOrganization Query
	ListOrganizations  Query
}

type boundQuery[T any] struct {
	Query
	mapper rowmap.Mapper[T]
}

func bind[T any](name string, q Query, base rowmap.Mapper[T]) (boundQuery[T], error) {
	if q.SQL == "" {
		return boundQuery[T]{}, fmt.Errorf("statement %s: empty SQL", name)
	}
	m := base
	if q.Aliases != nil {
		var err error
		if m, err = base.WithAliases(q.Aliases); err != nil {
			return boundQuery[T]{}, fmt.Errorf("statement %s: %w", name, err)
		}
	}
	return boundQuery[T]{Query: q, mapper: m}, nil
}
