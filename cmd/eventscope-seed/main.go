// Command eventscope-seed writes demo issues and events for local development
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"eventscope/internal/platform/config"
	"eventscope/internal/platform/logger"
	"eventscope/internal/platform/store"
	gedom "eventscope/internal/services/api/groupevents/domain"
	gerepo "eventscope/internal/services/api/groupevents/repo"
	gesvc "eventscope/internal/services/api/groupevents/service"
	"eventscope/internal/services/seed"
)

func main() {
	var (
		fOrg    = flag.Int64("org", 1, "organization id owning the project")
		fSlug   = flag.String("project", "backend", "project slug; issue short ids derive from it")
		fIssues = flag.Int("issues", 3, "issues to create")
		fEvents = flag.Int("events", 200, "events per issue")
		fEnvs   = flag.String("envs", "production,staging", "comma separated environments")
		fWindow = flag.Duration("window", 7*24*time.Hour, "spread events over this much recent time")
		fSeed   = flag.Int64("seed", 0, "faker seed; 0 picks one from the clock")
		fVerify = flag.Bool("verify", false, "read every seeded issue back through the events service")
	)
	flag.Parse()

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()
	ctx := context.Background()

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{
			Enabled:  true,
			URL:      pgCfg.MustString("DBURL"),
			MaxConns: 2,
			LogSQL:   pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    true,
			URL:        chCfg.MustString("DBURL"),
			Database:   chCfg.MayString("DATABASE", ""),
			ClientName: "seed",
			ClientTag:  chCfg.MayString("CLIENT_TAG", "dev"),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}

	s := *fSeed
	if s == 0 {
		s = time.Now().UnixNano()
	}

	var envs []string
	for _, e := range strings.Split(*fEnvs, ",") {
		if e = strings.TrimSpace(e); e != "" {
			envs = append(envs, e)
		}
	}

	sum, err := seed.New(st.PG, st.CH, seed.NewGenerator(s)).Run(ctx, seed.Options{
		OrgID:        *fOrg,
		ProjectSlug:  *fSlug,
		Issues:       *fIssues,
		EventsPer:    *fEvents,
		Environments: envs,
		Window:       *fWindow,
		Database:     chCfg.MayString("DATABASE", ""),
	})
	if err != nil {
		_ = st.Close(ctx)
		l.Fatal().Err(err).Msg("seed failed")
	}
	defer func() {
		if cerr := st.Close(ctx); cerr != nil {
			l.Error().Err(cerr).Msg("failed to close store")
		}
	}()
	l.Info().Int64("seed", s).Int64("project_id", sum.ProjectID).Strs("issues", sum.Issues).Msg("done")

	if *fVerify {
		svc := gesvc.New(st.PG, gerepo.NewPG(),
			gerepo.NewEvents(st.CH, gerepo.EventsOptions{Database: chCfg.MayString("DATABASE", "")}),
			gerepo.NewNodes(st.PG, nil, 0),
			gesvc.Options{DefaultPeriod: *fWindow + time.Hour},
		)
		viewer := gedom.Viewer{UserID: "seed", OrgID: *fOrg}
		for _, ref := range sum.Issues {
			recs, err := svc.Walk(ctx, gedom.ListInput{IssueRef: ref, PerPage: 100}, viewer, 4)
			if err != nil {
				l.Fatal().Err(err).Str("issue", ref).Msg("verify failed")
			}
			evt := l.Info()
			if len(recs) != *fEvents {
				evt = l.Warn()
			}
			evt.Str("issue", ref).Int("want", *fEvents).Int("got", len(recs)).Msg("verified")
		}
	}
}
