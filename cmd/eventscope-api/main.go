// @title         Eventscope API
// @version       0.1.0
// @description   Read only endpoints for listing and inspecting the events of an issue
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventscope/internal/platform/config"
	"eventscope/internal/platform/logger"
	phttp "eventscope/internal/platform/net/http"
	"eventscope/internal/platform/store"

	"eventscope/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*
	rdsCfg := root.Prefix("SERVICE_REDIS_")     // rdsCfg lives under SERVICE_REDIS_*

	// bring up logging early
	l := logger.Get()

	chDB := chCfg.MayString("DATABASE", "")

	// open the platform store (postgres + CH adapter + optional redis cache)
	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
			CH: store.CHConfig{
				Enabled:     true,
				URL:         chCfg.MustString("DBURL"),
				Database:    chDB,
				ClientName:  "api",
				ClientTag:   chCfg.MayString("CLIENT_TAG", "dev"),
				SlowQueryMs: chCfg.MayInt("SLOW_MS", 500),
				Debug:       chCfg.MayBool("DEBUG", false),
			},
			RDS: store.RedisConfig{
				Enabled:  rdsCfg.MayBool("ENABLED", false),
				Addr:     rdsCfg.MayString("ADDR", "localhost:6379"),
				Password: rdsCfg.MayString("PASSWORD", ""),
				DB:       rdsCfg.MayInt("DB", 0),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	gctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := st.Guard(gctx); err != nil {
		l.Warn().Err(err).Msg("store degraded at startup")
	}
	cancel()

	verifier := api.NewVerifier(apiCfg)
	if verifier == nil {
		l.Warn().Msg("CORE_API_JWT_SECRET unset; issue endpoints are unauthenticated")
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
			CHDatabase:     chDB,
			Auth:           verifier,
		},
	)

	// run until SIGINT/SIGTERM, then drain
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info().Str("addr", srv.Addr()).Msg("http server listening")
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		return
	}
	l.Info().Msg("http server drained")
}
