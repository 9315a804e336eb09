// Package store opens the backends eventscope reads from
//
// Postgres holds issues, environments and node payloads, clickhouse holds
// event rows and redis caches node payloads. Every backend is optional and
// stays nil on the Store unless its config enables it.
package store

import (
	"context"
	"errors"
	"fmt"

	"eventscope/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Store holds the opened backends; the zero value is usable and empty
type Store struct {
	Log logger.Logger

	PG  TxRunner
	CH  Clickhouse
	RDS redis.UniversalClient
}

// Row is a single row scan
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos are written against
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner adds transactions to RowQuerier
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam; Insert takes [][]any rows
type Clickhouse interface {
	Insert(ctx context.Context, table string, data any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Option mutates the Store before backends are opened
type Option func(*Store) error

// WithLogger sets the logger backends trace through
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// Open dials every enabled backend; on failure the ones already open are closed
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	fail := func(err error) (*Store, error) {
		_ = s.Close(ctx)
		return nil, err
	}

	if cfg.PG.Enabled {
		p, err := openPG(ctx, cfg, s.Log)
		if err != nil {
			return fail(err)
		}
		s.PG = p
	}
	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		s.CH = c
	}
	if cfg.RDS.Enabled {
		r, err := openRedis(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		s.RDS = r
	}
	return s, nil
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil store")
	}
	var errs []error
	check := func(name string, v any) {
		p, ok := v.(Pinger)
		if !ok {
			return
		}
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	if s.PG != nil {
		check("pg", s.PG)
	}
	if s.CH != nil {
		check("ch", s.CH)
	}
	if s.RDS != nil {
		if err := s.RDS.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close closes the open backends, cache first
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if s.RDS != nil {
		errs = append(errs, s.RDS.Close())
	}
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
