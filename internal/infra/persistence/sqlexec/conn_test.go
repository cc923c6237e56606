package sqlexec

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"peopledb/internal/infra/persistence/postgres/testutil"
	"peopledb/pkg/domain"
	"testing"
	"time"
)

const personByID = "SELECT id, name FROM person WHERE id = $1"

func echoRows(query string, args []driver.Value) ([]string, [][]driver.Value, error) {
	switch query {
	case personByID:
		return []string{"id", "name"}, [][]driver.Value{{args[0], "Ada"}}, nil
	default:
		return []string{"id"}, nil, nil
	}
}

func TestQueryPreparesOncePerCheckout(t *testing.T) {
	db, state := testutil.NewStubDB(echoRows)
	pool := NewPool(db, PoolConfig{MaxConns: 2})
	defer func() { _ = pool.Close() }()
	ctx := context.Background()

	err := pool.WithConn(ctx, func(c *Conn) error {
		for i := int64(1); i <= 3; i++ {
			rows, err := c.Query(ctx, personByID, i)
			if err != nil {
				return err
			}
			if len(rows) != 1 {
				t.Fatalf("expected one row, got %d", len(rows))
			}
			if v, _ := rows[0].Value("id"); v != i {
				t.Fatalf("expected id %d, got %v", i, v)
			}
		}
		if c.Prepared() != 1 {
			t.Fatalf("expected one cached statement, got %d", c.Prepared())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithConn: %v", err)
	}
	if got := state.Prepares(personByID); got != 1 {
		t.Fatalf("expected a single prepare, got %d", got)
	}

	// A new checkout prepares again and behaves identically.
	err = pool.WithConn(ctx, func(c *Conn) error {
		rows, err := c.Query(ctx, personByID, int64(9))
		if err != nil {
			return err
		}
		if v, _ := rows[0].Value("name"); v != "Ada" {
			t.Fatalf("unexpected name %v", v)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("second WithConn: %v", err)
	}
	if got := state.Prepares(personByID); got != 2 {
		t.Fatalf("expected re-prepare on new checkout, got %d", got)
	}
}

func TestQueryZeroRowsIsNotAnError(t *testing.T) {
	db, _ := testutil.NewStubDB(echoRows)
	pool := NewPool(db, PoolConfig{})
	defer func() { _ = pool.Close() }()

	err := pool.WithConn(context.Background(), func(c *Conn) error {
		rows, err := c.Query(context.Background(), "SELECT id FROM person")
		if err != nil {
			return err
		}
		if len(rows) != 0 {
			t.Fatalf("expected no rows, got %d", len(rows))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithConn: %v", err)
	}
}

func TestQueryFailuresAreQueryErrors(t *testing.T) {
	driverErr := errors.New("unique violation")
	db, state := testutil.NewStubDB(func(query string, _ []driver.Value) ([]string, [][]driver.Value, error) {
		if query == "INSERT INTO person (name) VALUES ($1) RETURNING id" {
			return nil, nil, driverErr
		}
		return []string{"id"}, nil, nil
	})
	state.PrepareErr = map[string]error{"SELEC id": errors.New("syntax error")}
	pool := NewPool(db, PoolConfig{})
	defer func() { _ = pool.Close() }()
	ctx := context.Background()

	cases := []struct {
		name   string
		query  string
		params []any
	}{
		{name: "prepare", query: "SELEC id"},
		{name: "arity", query: personByID, params: []any{int64(1), int64(2)}},
		{name: "execute", query: "INSERT INTO person (name) VALUES ($1) RETURNING id", params: []any{"x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := pool.WithConn(ctx, func(c *Conn) error {
				_, err := c.Query(ctx, tc.query, tc.params...)
				return err
			})
			var qe *domain.QueryError
			if !errors.As(err, &qe) {
				t.Fatalf("expected QueryError, got %T %v", err, err)
			}
			if qe.Statement != tc.query {
				t.Fatalf("expected statement %q, got %q", tc.query, qe.Statement)
			}
		})
	}
}

func TestQueryBindsNullableOutputSlots(t *testing.T) {
	const call = "CALL select_person_by_id($1, $2, $3)"
	db, state := testutil.NewStubDB(func(string, []driver.Value) ([]string, [][]driver.Value, error) {
		return []string{"p_id"}, [][]driver.Value{{int64(1)}}, nil
	})
	pool := NewPool(db, PoolConfig{})
	defer func() { _ = pool.Close() }()

	err := pool.WithConn(context.Background(), func(c *Conn) error {
		_, err := c.Query(context.Background(), call, int32(1), sql.Null[string]{}, sql.Null[bool]{})
		return err
	})
	if err != nil {
		t.Fatalf("WithConn: %v", err)
	}
	calls := state.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one call, got %d", len(calls))
	}
	if calls[0].Args[0] != int64(1) || calls[0].Args[1] != nil || calls[0].Args[2] != nil {
		t.Fatalf("expected id then NULL outputs, got %#v", calls[0].Args)
	}
}

func TestAcquireReportsPoolExhausted(t *testing.T) {
	db, _ := testutil.NewStubDB(nil)
	pool := NewPool(db, PoolConfig{MaxConns: 1, AcquireTimeout: 20 * time.Millisecond})
	defer func() { _ = pool.Close() }()
	ctx := context.Background()

	held, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := pool.Acquire(ctx); !errors.Is(err, domain.ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
	if err := held.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	again, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	_ = again.Release()
}

func TestAcquireHonoursCallerCancellation(t *testing.T) {
	db, _ := testutil.NewStubDB(nil)
	pool := NewPool(db, PoolConfig{MaxConns: 1, AcquireTimeout: time.Second})
	defer func() { _ = pool.Close() }()

	held, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer func() { _ = held.Release() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pool.Acquire(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, domain.ErrPoolExhausted) {
		t.Fatalf("caller cancellation must not read as pool exhaustion")
	}
}

func TestWithConnReleasesOnError(t *testing.T) {
	db, _ := testutil.NewStubDB(nil)
	pool := NewPool(db, PoolConfig{MaxConns: 1, AcquireTimeout: 50 * time.Millisecond})
	defer func() { _ = pool.Close() }()
	ctx := context.Background()

	boom := errors.New("boom")
	if err := pool.WithConn(ctx, func(*Conn) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
	if err := pool.WithConn(ctx, func(*Conn) error { return nil }); err != nil {
		t.Fatalf("expected connection to be released after error, got %v", err)
	}
}

func TestRowLookup(t *testing.T) {
	row := NewRow([]string{"id", "name"}, []any{int64(1), nil})
	if v, ok := row.Value("id"); !ok || v != int64(1) {
		t.Fatalf("unexpected id lookup: %v %v", v, ok)
	}
	if _, ok := row.Value("missing"); ok {
		t.Fatalf("expected missing column lookup to fail")
	}
	if row.AllNull() {
		t.Fatalf("row with a value is not all NULL")
	}
	if !NewRow([]string{"a", "b"}, []any{nil, nil}).AllNull() {
		t.Fatalf("expected all NULL row")
	}
	if got := row.Columns(); len(got) != 2 || got[1] != "name" {
		t.Fatalf("unexpected columns %v", got)
	}
}
