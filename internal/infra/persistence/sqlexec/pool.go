// Package sqlexec checks connections out of a bounded database/sql pool,
// prepares statements once per connection checkout, binds parameters by
// position, and returns result rows addressed by column name.
package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"peopledb/pkg/domain"
	"time"
)

const defaultAcquireTimeout = 5 * time.Second

// PoolConfig bounds the connection pool. Zero values keep database/sql
// defaults, except AcquireTimeout which falls back to five seconds.
type PoolConfig struct {
	MaxConns        int
	MaxIdle         int
	AcquireTimeout  time.Duration
	ConnMaxLifetime time.Duration
}

// Pool hands out one connection per operation.
type Pool struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// NewPool applies cfg to db and wraps it. The pool owns db from here on.
func NewPool(db *sql.DB, cfg PoolConfig) *Pool {
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	timeout := cfg.AcquireTimeout
	if timeout <= 0 {
		timeout = defaultAcquireTimeout
	}
	return &Pool{db: db, acquireTimeout: timeout}
}

// DB exposes the underlying sql.DB for pool statistics.
func (p *Pool) DB() *sql.DB { return p.db }

// Close closes every pooled connection.
func (p *Pool) Close() error { return p.db.Close() }

// Acquire checks out a connection, waiting at most the acquisition timeout
// when the pool is at its bound. The caller must Release the result.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	actx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()
	conn, err := p.db.Conn(actx)
	if err == nil {
		return newConn(conn), nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("acquire connection: %w", ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("acquire connection within %s: %w", p.acquireTimeout, domain.ErrPoolExhausted)
	}
	return nil, &domain.QueryError{Statement: "connect", Err: err}
}

// WithConn runs fn on a freshly acquired connection and releases it on every
// exit path.
func (p *Pool) WithConn(ctx context.Context, fn func(*Conn) error) (err error) {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := conn.Release(); rerr != nil && err == nil {
			err = &domain.QueryError{Statement: "release", Err: rerr}
		}
	}()
	return fn(conn)
}
