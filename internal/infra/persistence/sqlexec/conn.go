package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"peopledb/pkg/domain"
)

// Conn is a checked-out connection with its own prepared statement cache.
// It is not safe for concurrent use; one operation owns it at a time.
type Conn struct {
	conn  *sql.Conn
	stmts map[string]*sql.Stmt
}

func newConn(conn *sql.Conn) *Conn {
	return &Conn{conn: conn, stmts: make(map[string]*sql.Stmt)}
}

// Prepared reports how many distinct statement texts this checkout prepared.
func (c *Conn) Prepared() int { return len(c.stmts) }

// Query prepares text (once per checkout), binds params by position, and
// reads every result row. Zero rows is a valid, empty result.
func (c *Conn) Query(ctx context.Context, text string, params ...any) ([]Row, error) {
	stmt, err := c.prepare(ctx, text)
	if err != nil {
		return nil, &domain.QueryError{Statement: text, Err: fmt.Errorf("prepare: %w", err)}
	}
	rows, err := stmt.QueryContext(ctx, params...)
	if err != nil {
		return nil, &domain.QueryError{Statement: text, Err: err}
	}
	out, err := collect(rows)
	if err != nil {
		return nil, &domain.QueryError{Statement: text, Err: err}
	}
	return out, nil
}

func (c *Conn) prepare(ctx context.Context, text string) (*sql.Stmt, error) {
	if stmt, ok := c.stmts[text]; ok {
		return stmt, nil
	}
	stmt, err := c.conn.PrepareContext(ctx, text)
	if err != nil {
		return nil, err
	}
	c.stmts[text] = stmt
	return stmt, nil
}

// Release closes the cached statements and returns the connection to the pool.
func (c *Conn) Release() error {
	var errs []error
	for text, stmt := range c.stmts {
		if err := stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close statement %q: %w", text, err))
		}
		delete(c.stmts, text)
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		errs = append(errs, fmt.Errorf("close connection: %w", err))
	}
	return errors.Join(errs...)
}

func collect(rows *sql.Rows) (out []Row, err error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}
	cols := newColumns(names)
	for rows.Next() {
		values := make([]any, len(names))
		dest := make([]any, len(names))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, Row{cols: cols, values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return out, nil
}
