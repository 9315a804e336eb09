// Package module wires group events into the API using modkit
package module

import (
	"time"

	modkit "eventscope/internal/modkit"
	"eventscope/internal/modkit/httpkit"
	"eventscope/internal/platform/config"
	gehttp "eventscope/internal/services/api/groupevents/http"
	gerepo "eventscope/internal/services/api/groupevents/repo"
	gesvc "eventscope/internal/services/api/groupevents/service"
)

// Options tunes the module; FromConfig fills it from CORE_API_*
type Options struct {
	// Database prefixes clickhouse tables, set from SERVICE_CLICKHOUSE_DATABASE
	Database      string
	Retention     time.Duration
	DefaultWindow time.Duration
	NodeCacheTTL  time.Duration
	MaxLimit      int
}

// FromConfig reads module options from an api scoped config view
func FromConfig(c config.Conf) Options {
	return Options{
		Retention:     time.Duration(c.MayInt("RETENTION_DAYS", 90)) * 24 * time.Hour,
		DefaultWindow: c.MayDuration("DEFAULT_WINDOW", 90*24*time.Hour),
		NodeCacheTTL:  c.MayDuration("NODE_CACHE_TTL", gerepo.DefaultNodeTTL),
		MaxLimit:      c.MayInt("MAX_PER_PAGE", 100),
	}
}

// Module mounts the issue events endpoints under /issues
type Module struct {
	modkit.Base
	svc gesvc.Service
}

// New builds the repositories and service from deps; it panics without clickhouse
func New(deps modkit.Deps, opt Options, opts ...modkit.Option) *Module {
	base := modkit.Build(append([]modkit.Option{modkit.WithName("groupevents"), modkit.WithPrefix("/issues")}, opts...)...)

	events := gerepo.NewEvents(deps.CH, gerepo.EventsOptions{
		Database:  opt.Database,
		Retention: opt.Retention,
	})
	nodes := gerepo.NewNodes(deps.PG, deps.RDS, opt.NodeCacheTTL)
	svc := gesvc.New(deps.PG, gerepo.NewPG(), events, nodes, gesvc.Options{
		DefaultPeriod: opt.DefaultWindow,
		MaxLimit:      opt.MaxLimit,
	})
	return &Module{Base: base, svc: svc}
}

var _ modkit.Module = (*Module)(nil)

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(sub httpkit.Router) { gehttp.Register(sub, m.svc) })
}
