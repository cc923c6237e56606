// Package testutil provides a scripted database/sql driver for exercising the
// executor and repository against Postgres-style statements without a server.
package testutil

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Responder answers one statement execution with result columns and rows.
type Responder func(query string, args []driver.Value) ([]string, [][]driver.Value, error)

// Call records one statement execution.
type Call struct {
	Query string
	Args  []driver.Value
}

// StubDB is the shared state behind every connection the stub driver opens.
type StubDB struct {
	mu       sync.Mutex
	respond  Responder
	prepares map[string]int
	calls    []Call
	opened   int

	// PrepareErr, when set, fails every Prepare of the matching query.
	PrepareErr map[string]error
}

var driverSeq uint64

// NewStubDB registers a fresh driver instance and opens a sql.DB over it.
func NewStubDB(respond Responder) (*sql.DB, *StubDB) {
	state := &StubDB{respond: respond, prepares: make(map[string]int)}
	name := fmt.Sprintf("stubpg%d", atomic.AddUint64(&driverSeq, 1))
	sql.Register(name, &stubDriver{state: state})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, state
}

// Prepares returns how many times query was prepared across all connections.
func (s *StubDB) Prepares(query string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prepares[query]
}

// Calls returns a copy of the recorded executions.
func (s *StubDB) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Opened returns the number of physical connections opened.
func (s *StubDB) Opened() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

type stubDriver struct {
	state *StubDB
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	d.state.mu.Lock()
	d.state.opened++
	d.state.mu.Unlock()
	return &stubConn{state: d.state}, nil
}

type stubConn struct {
	state *StubDB
}

// Prepare implements driver.Conn.
func (c *stubConn) Prepare(query string) (driver.Stmt, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	if err := c.state.PrepareErr[query]; err != nil {
		return nil, err
	}
	c.state.prepares[query]++
	return &stubStmt{state: c.state, query: query, numInput: CountPlaceholders(query)}, nil
}

// Close implements driver.Conn.
func (c *stubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, fmt.Errorf("stub: transactions not supported")
}

type stubStmt struct {
	state    *StubDB
	query    string
	numInput int
}

func (s *stubStmt) Close() error  { return nil }
func (s *stubStmt) NumInput() int { return s.numInput }

func (s *stubStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, fmt.Errorf("stub: exec not supported, use Query")
}

func (s *stubStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.state.mu.Lock()
	s.state.calls = append(s.state.calls, Call{Query: s.query, Args: append([]driver.Value(nil), args...)})
	respond := s.state.respond
	s.state.mu.Unlock()
	if respond == nil {
		return &stubRows{}, nil
	}
	cols, rows, err := respond(s.query, args)
	if err != nil {
		return nil, err
	}
	return &stubRows{cols: cols, rows: rows}, nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	idx  int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.idx >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.idx])
	r.idx++
	return nil
}

var dollarParam = regexp.MustCompile(`\$(\d+)`)

// CountPlaceholders returns the highest $n placeholder in query, or the
// number of ? placeholders when it uses none.
func CountPlaceholders(query string) int {
	highest := 0
	for _, m := range dollarParam.FindAllStringSubmatch(query, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	if highest > 0 {
		return highest
	}
	return strings.Count(query, "?")
}
