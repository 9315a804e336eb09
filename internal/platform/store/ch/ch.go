// Package ch provides a clickhouse client
package ch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventscope/internal/platform/logger"
	"eventscope/internal/platform/metrics"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL      string
	Database string

	// ClientName and ClientTag end up in system.query_log client info
	ClientName string
	ClientTag  string

	MaxOpenConns int
	DialTimeout  time.Duration
	SlowMs       int
	Debug        bool
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// Batch is the subset of driver.Batch used for inserts
type Batch interface {
	Append(v ...any) error
	Send() error
	Abort() error
}

// conn is the narrow surface we need from driver.Conn
type conn interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	PrepareBatch(ctx context.Context, sql string) (Batch, error)
	Ping(ctx context.Context) error
	Close() error
}

// CH is a clickhouse client over clickhouse-go/v2 native protocol
type CH struct {
	c      conn
	log    logger.Logger
	slowUS int64
}

// driverConn adapts driver.Conn to conn
type driverConn struct{ d driver.Conn }

func (a driverConn) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return a.d.Query(ctx, sql, args...)
}

func (a driverConn) Exec(ctx context.Context, sql string, args ...any) error {
	return a.d.Exec(ctx, sql, args...)
}

func (a driverConn) PrepareBatch(ctx context.Context, sql string) (Batch, error) {
	return a.d.PrepareBatch(ctx, sql)
}

func (a driverConn) Ping(ctx context.Context) error { return a.d.Ping(ctx) }
func (a driverConn) Close() error                   { return a.d.Close() }

// openConn is a seam so tests do not need a server
var openConn = func(opts *clickhouse.Options) (conn, error) {
	d, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	return driverConn{d: d}, nil
}

// Options turns Config into clickhouse.Options
func Options(cfg Config) (*clickhouse.Options, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	if cfg.Database != "" {
		opts.Auth.Database = cfg.Database
	}
	if cfg.MaxOpenConns > 0 {
		opts.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	opts.Debug = cfg.Debug
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)
	return opts, nil
}

// Open dials clickhouse; the connection is lazy so callers should Ping
func Open(_ context.Context, cfg Config) (*CH, error) {
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	c, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	return &CH{
		c:      c,
		log:    logger.Named("ch").With().Logger(),
		slowUS: int64(cfg.SlowMs) * 1000,
	}, nil
}

// Insert appends rows to table in a single native batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	start := time.Now()
	b, err := c.c.PrepareBatch(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return err
		}
	}
	err = b.Send()
	c.trace("INSERT INTO "+table, nil, start, err)
	return err
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	r, err := c.c.Query(ctx, sql, args...)
	c.trace(sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Exec runs a statement that returns no rows (DDL, mutations)
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	start := time.Now()
	err := c.c.Exec(ctx, sql, args...)
	c.trace(sql, args, start, err)
	return err
}

// Ping checks server connectivity
func (c *CH) Ping(ctx context.Context) error { return c.c.Ping(ctx) }

// Close closes resources
func (c *CH) Close() error { return c.c.Close() }

func (c *CH) trace(sql string, args []any, start time.Time, err error) {
	elapsed := time.Since(start)
	metrics.ObserveDB("ch", elapsed, err)

	evt := c.log.Debug()
	if err != nil {
		evt = c.log.Warn().Err(err)
	} else if c.slowUS > 0 && elapsed.Microseconds() >= c.slowUS {
		evt = c.log.Warn().Bool("slow", true)
	}
	evt.Float64("elapsed_ms", float64(elapsed.Microseconds())/1000.0).
		Str("sql", compact(sql)).
		Interface("args", args).
		Msg("ch query")
}

// WithReferrer tags queries issued with ctx so they can be told apart in system.query_log
func WithReferrer(ctx context.Context, referrer string) context.Context {
	if referrer == "" {
		return ctx
	}
	return clickhouse.Context(ctx, clickhouse.WithSettings(clickhouse.Settings{
		"log_comment": referrer,
	}))
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
