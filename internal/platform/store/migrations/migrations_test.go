package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"eventscope/internal/platform/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recExec struct {
	stmts  []string
	failAt int
}

func (r *recExec) Exec(_ context.Context, sql string, _ ...any) error {
	r.stmts = append(r.stmts, sql)
	if r.failAt > 0 && len(r.stmts) == r.failAt {
		return errors.New("syntax error")
	}
	return nil
}

func TestClickhouseStatements_ResolveDatabase(t *testing.T) {
	t.Parallel()

	stmts, err := ClickhouseStatements("es")
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS es.events")
	assert.Contains(t, stmts[1], "CREATE TABLE IF NOT EXISTS es.transactions")
	assert.Contains(t, stmts[2], "CREATE TABLE IF NOT EXISTS es.search_issues")
	for _, s := range stmts {
		assert.NotContains(t, s, "{db}")
		assert.False(t, strings.HasSuffix(s, ";"))
		assert.Contains(t, s, "deleted")
		assert.Contains(t, s, "Nested(key String, value String)")
	}
}

func TestClickhouseStatements_DefaultDatabase(t *testing.T) {
	t.Parallel()

	stmts, err := ClickhouseStatements("")
	require.NoError(t, err)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS events\n")
}

func TestClickhouse_AppliesInOrder(t *testing.T) {
	t.Parallel()

	rec := &recExec{}
	require.NoError(t, Clickhouse(context.Background(), rec, "es"))
	require.Len(t, rec.stmts, 4)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS es", rec.stmts[0])
	assert.Contains(t, rec.stmts[1], "es.events")
}

func TestClickhouse_StopsOnError(t *testing.T) {
	t.Parallel()

	rec := &recExec{failAt: 2}
	err := Clickhouse(context.Background(), rec, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement 2")
	assert.Len(t, rec.stmts, 2)
}

func TestPostgresMigrations_ArePaired(t *testing.T) {
	t.Parallel()

	ups, err := fs.Glob(pgFS, "pg/*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)
	for _, u := range ups {
		down := strings.TrimSuffix(u, ".up.sql") + ".down.sql"
		_, err := fs.Stat(pgFS, down)
		assert.NoError(t, err, "missing %s", down)
	}
}

func TestPostgres_OpenError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &openPG, func(string) (*sql.DB, error) { return nil, errors.New("bad dsn") })

	_, err := Postgres(context.Background(), "postgres://x", Up)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open postgres")
}
