package domain

import (
	"errors"
	"fmt"
)

// ErrPoolExhausted is returned when no pooled connection became available
// within the acquisition timeout. Callers may retry.
var ErrPoolExhausted = errors.New("connection pool exhausted")

// ErrNotFound is returned when a query that must yield exactly one row
// yielded none.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NotFound builds an ErrNotFound for an integer key.
func NotFound(entity EntityType, id int32) ErrNotFound {
	return ErrNotFound{Entity: entity, ID: fmt.Sprintf("%d", id)}
}

// IsNotFound reports whether err carries an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// QueryError wraps a failure to prepare or execute a statement: malformed
// SQL, bind mismatches, constraint violations, or lost connectivity.
type QueryError struct {
	Statement string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.Statement, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// MappingError reports a row that does not have the shape its entity expects.
// It signals schema drift or a wrong statement, never bad user input.
type MappingError struct {
	Entity EntityType
	Column string
	Err    error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("map %s column %q: %v", e.Entity, e.Column, e.Err)
}

func (e *MappingError) Unwrap() error { return e.Err }
