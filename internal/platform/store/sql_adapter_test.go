package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventscope/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct{ err error }

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = 42
	return nil
}

// fakeRows embeds pgx.Rows so only the methods under test need bodies
type fakeRows struct {
	pgx.Rows
	n      int
	closed bool
}

func (r *fakeRows) Next() bool { r.n--; return r.n >= 0 }
func (r *fakeRows) Scan(dest ...any) error {
	*(dest[0].(*string)) = "production"
	return nil
}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     { r.closed = true }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	return []pgconn.FieldDescription{{Name: "id"}, {Name: "name"}}
}

type fakeConn struct {
	sql      []string
	execErr  error
	queryErr error
	rowErr   error
	rows     *fakeRows
	delay    time.Duration
}

func (c *fakeConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.sql = append(c.sql, sql)
	time.Sleep(c.delay)
	return pgconn.NewCommandTag("INSERT 0 3"), c.execErr
}

func (c *fakeConn) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	c.sql = append(c.sql, sql)
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return c.rows, nil
}

func (c *fakeConn) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	c.sql = append(c.sql, sql)
	return fakeRow{err: c.rowErr}
}

type recorder struct{ events []pg.QueryEvent }

func (r *recorder) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

func TestTraced_Exec(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	conn := &fakeConn{delay: 2 * time.Millisecond}
	q := traced{conn: conn, tracer: rec, slow: time.Millisecond}

	ct, err := q.Exec(context.Background(), "insert into environments values ($1)", "staging")
	require.NoError(t, err)
	assert.EqualValues(t, 3, ct.RowsAffected())
	assert.Equal(t, "INSERT 0 3", ct.String())

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, []any{"staging"}, ev.Args)
	assert.True(t, ev.Slow)
	assert.NoError(t, ev.Err)

	conn.execErr = errors.New("unique_violation")
	conn.delay = 0
	_, err = q.Exec(context.Background(), "insert")
	assert.EqualError(t, err, "unique_violation")
	assert.Equal(t, err, rec.events[1].Err)
}

func TestTraced_Query(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	conn := &fakeConn{rows: &fakeRows{n: 2}}
	q := traced{conn: conn, tracer: rec}

	rs, err := q.Query(context.Background(), "select id, name from environments")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, rs.Columns())

	var names []string
	for rs.Next() {
		var n string
		require.NoError(t, rs.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rs.Err())
	rs.Close()
	assert.Equal(t, []string{"production", "production"}, names)
	assert.True(t, conn.rows.closed)
	assert.False(t, rec.events[0].Slow, "zero threshold never marks slow")

	conn.queryErr = errors.New("syntax")
	_, err = q.Query(context.Background(), "selec")
	assert.EqualError(t, err, "syntax")
	assert.Len(t, rec.events, 2)
}

func TestTraced_QueryRowReportsAfterScan(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	conn := &fakeConn{}
	q := traced{conn: conn, tracer: rec}

	row := q.QueryRow(context.Background(), "select id from groups where id = $1", 1)
	assert.Empty(t, rec.events, "nothing reported before Scan")

	var id int64
	require.NoError(t, row.Scan(&id))
	assert.EqualValues(t, 42, id)
	require.Len(t, rec.events, 1)

	conn.rowErr = pgx.ErrNoRows
	err := q.QueryRow(context.Background(), "select").Scan(&id)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, rec.events[1].Err, pgx.ErrNoRows)
}

func TestTraced_NilTracer(t *testing.T) {
	t.Parallel()

	q := traced{conn: &fakeConn{}}
	_, err := q.Exec(context.Background(), "select 1")
	assert.NoError(t, err)
}

func TestPGAdapter_NilPing(t *testing.T) {
	t.Parallel()

	var a *pgAdapter
	assert.Error(t, a.Ping(context.Background()))
}
