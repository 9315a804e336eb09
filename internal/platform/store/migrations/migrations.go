// Package migrations applies the postgres and clickhouse schemas the api reads
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"eventscope/internal/platform/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/lib/pq" // postgres driver for database/sql
)

//go:embed pg/*.sql
var pgFS embed.FS

//go:embed ch/*.sql
var chFS embed.FS

// Table records applied postgres versions
const Table = "eventscope_migrations"

// Direction selects what Postgres does
type Direction int

const (
	// Up applies pending migrations
	Up Direction = iota
	// Down reverts every migration
	Down
)

// migrateLog forwards golang-migrate output to zerolog
type migrateLog struct{ log *logger.Logger }

func (m migrateLog) Printf(format string, v ...any) {
	m.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (m migrateLog) Verbose() bool { return false }

// openPG is a seam so tests can avoid a server
var openPG = func(url string) (*sql.DB, error) { return sql.Open("postgres", url) }

// Postgres runs the embedded postgres migrations against url and returns the resulting version
func Postgres(ctx context.Context, url string, dir Direction) (uint, error) {
	log := logger.Named("migrate")

	db, err := openPG(url)
	if err != nil {
		return 0, fmt.Errorf("migrate: open postgres: %w", err)
	}
	defer func() { _ = db.Close() }()
	if err := db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("migrate: ping postgres: %w", err)
	}

	drv, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: Table})
	if err != nil {
		return 0, fmt.Errorf("migrate: postgres driver: %w", err)
	}
	src, err := iofs.New(pgFS, "pg")
	if err != nil {
		return 0, fmt.Errorf("migrate: embedded source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", drv)
	if err != nil {
		return 0, fmt.Errorf("migrate: init: %w", err)
	}
	m.Log = migrateLog{log: log}

	switch dir {
	case Down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate: apply: %w", err)
	}

	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("migrate: version: %w", err)
	}
	if dirty {
		return v, fmt.Errorf("migrate: version %d is dirty", v)
	}
	return v, nil
}

// Execer runs one clickhouse statement
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// ClickhouseStatements returns the embedded clickhouse DDL in file order with {db} resolved
func ClickhouseStatements(database string) ([]string, error) {
	names, err := fs.Glob(chFS, "ch/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	prefix := ""
	if database != "" {
		prefix = database + "."
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		b, err := chFS.ReadFile(n)
		if err != nil {
			return nil, err
		}
		stmt := strings.TrimSuffix(strings.TrimSpace(string(b)), ";")
		out = append(out, strings.ReplaceAll(stmt, "{db}", prefix))
	}
	return out, nil
}

// Clickhouse creates the event tables; every statement is idempotent
func Clickhouse(ctx context.Context, c Execer, database string) error {
	log := logger.C(ctx)

	if database != "" {
		if err := c.Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+database); err != nil {
			return fmt.Errorf("migrate: create database %s: %w", database, err)
		}
	}
	stmts, err := ClickhouseStatements(database)
	if err != nil {
		return err
	}
	for i, s := range stmts {
		if err := c.Exec(ctx, s); err != nil {
			return fmt.Errorf("migrate: clickhouse statement %d: %w", i+1, err)
		}
	}
	log.Info().Int("statements", len(stmts)).Str("database", database).Msg("clickhouse schema applied")
	return nil
}
