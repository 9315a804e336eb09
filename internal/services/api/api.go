// Package api assembles the http api from its modules
package api

import (
	"eventscope/internal/platform/auth"
	"eventscope/internal/platform/config"
	"eventscope/internal/platform/metrics"
	phttp "eventscope/internal/platform/net/http"
	"eventscope/internal/platform/net/middleware"
	"eventscope/internal/platform/store"

	"eventscope/internal/modkit"
	"eventscope/internal/modkit/httpkit"
	"eventscope/internal/modkit/swaggerkit"

	gemod "eventscope/internal/services/api/groupevents/module"
	metamod "eventscope/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf // CORE_API_ view
	Store          *store.Store
	EnableSwagger  bool
	EnableProfiler bool

	// CHDatabase prefixes event tables, empty uses the connection default
	CHDatabase string

	// Auth verifies bearer tokens; nil leaves the issue routes open
	Auth middleware.Authenticator
}

// Mount mounts /metrics, the docs and /api/v1 on r
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
		RDS: opt.Store.RDS,
	}

	geOpts := gemod.FromConfig(deps.Cfg)
	geOpts.Database = opt.CHDatabase

	// limiter runs after auth so buckets key on the user, not the proxy ip
	limit := middleware.RateLimit(middleware.RateLimitOptions{
		RPS:       opt.Config.MayFloat64("RATE_RPS", 20),
		Burst:     opt.Config.MayInt("RATE_BURST", 0),
		OnLimited: metrics.RateLimited.Inc,
	}, phttp.JSON)

	r.Use(metrics.Middleware)
	r.Handle("/metrics", metrics.Handler())
	swaggerkit.Mount(r, swaggerkit.Options{
		Enabled:     opt.EnableSwagger,
		TitleSuffix: opt.Config.MayString("DOCS_TITLE_SUFFIX", ""),
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Config), func(api httpkit.Router) {
		modkit.MountAll(api, metamod.New(deps))

		httpkit.Protected(api, opt.Auth, func(pr httpkit.Router) {
			pr.Use(limit)
			modkit.MountAll(pr, gemod.New(deps, geOpts))
		})
	})
}

// NewVerifier builds the bearer verifier from JWT_SECRET and JWT_ISSUER; an unset secret disables auth
func NewVerifier(c config.Conf) middleware.Authenticator {
	secret := c.MayString("JWT_SECRET", "")
	if secret == "" {
		return nil
	}
	return auth.NewVerifier(secret, c.MayString("JWT_ISSUER", ""))
}
