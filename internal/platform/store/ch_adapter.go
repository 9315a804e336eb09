package store

import (
	"context"
	"errors"
	"fmt"

	"eventscope/internal/platform/store/ch"
)

// chConn is the part of *ch.CH the store uses
type chConn interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (ch.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Ping(ctx context.Context) error
	Close() error
}

type chStore struct{ conn chConn }

var (
	_ Clickhouse = (*chStore)(nil)
	_ Pinger     = (*chStore)(nil)
)

func newCHAdapter(c chConn) Clickhouse { return &chStore{conn: c} }

// Insert takes rows as [][]any in table column order
func (s *chStore) Insert(ctx context.Context, table string, data any) error {
	rows, ok := data.([][]any)
	if !ok {
		return fmt.Errorf("store: clickhouse insert wants [][]any, got %T", data)
	}
	return s.conn.Insert(ctx, table, rows)
}

func (s *chStore) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := s.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (s *chStore) Exec(ctx context.Context, sql string, args ...any) error {
	return s.conn.Exec(ctx, sql, args...)
}

func (s *chStore) Close() error { return s.conn.Close() }

// Ping needs a round trip through the query path as well as the handshake;
// a server can accept connections while refusing queries during startup
func (s *chStore) Ping(ctx context.Context) error {
	if s == nil || s.conn == nil {
		return errors.New("store: clickhouse not configured")
	}
	if err := s.conn.Ping(ctx); err != nil {
		return err
	}
	r, err := s.conn.Query(ctx, "SELECT toInt32(1)")
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	var one int32
	switch {
	case r.Next():
		if err := r.Scan(&one); err != nil {
			return err
		}
	case r.Err() != nil:
		return r.Err()
	default:
		return errors.New("store: clickhouse ping returned no rows")
	}
	return r.Err()
}

// chRows drops the error from Close to match Rows
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
