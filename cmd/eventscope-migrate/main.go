// Command eventscope-migrate applies the postgres and clickhouse schemas
package main

import (
	"context"
	"flag"

	"eventscope/internal/platform/config"
	"eventscope/internal/platform/logger"
	"eventscope/internal/platform/store"
	"eventscope/internal/platform/store/migrations"
)

func main() {
	var (
		fDown   = flag.Bool("down", false, "revert every postgres migration instead of applying")
		fSkipPG = flag.Bool("skip-pg", false, "leave postgres untouched")
		fSkipCH = flag.Bool("skip-ch", false, "leave clickhouse untouched")
	)
	flag.Parse()

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()
	ctx := context.Background()

	if !*fSkipPG {
		dir := migrations.Up
		if *fDown {
			dir = migrations.Down
		}
		v, err := migrations.Postgres(ctx, pgCfg.MustString("DBURL"), dir)
		if err != nil {
			l.Fatal().Err(err).Msg("postgres migrations failed")
		}
		l.Info().Uint("version", v).Bool("down", *fDown).Msg("postgres migrations done")
	}

	if *fSkipCH || *fDown {
		return
	}

	// ddl runs without a database so CREATE DATABASE works on a fresh server
	st, err := store.Open(ctx, store.Config{
		CH: store.CHConfig{
			Enabled:    true,
			URL:        chCfg.MustString("DBURL"),
			ClientName: "migrate",
			ClientTag:  chCfg.MayString("CLIENT_TAG", "dev"),
			Debug:      chCfg.MayBool("DEBUG", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}

	err = migrations.Clickhouse(ctx, st.CH, chCfg.MayString("DATABASE", ""))
	if cerr := st.Close(ctx); cerr != nil {
		l.Error().Err(cerr).Msg("failed to close store")
	}
	if err != nil {
		l.Fatal().Err(err).Msg("clickhouse migrations failed")
	}
}
