// Package module mounts the meta endpoints
package module

import (
	"context"
	"time"

	"eventscope/internal/core/version"
	modkit "eventscope/internal/modkit"
	"eventscope/internal/modkit/httpkit"

	metahttp "eventscope/internal/services/api/meta/http"
)

// Module serves health, readiness and build info under /meta
type Module struct {
	modkit.Base
	deps metahttp.Deps
}

// New records the start time; readiness pings whichever stores deps carries
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	d := metahttp.Deps{
		ServiceName: version.Info().Service,
		StartedAt:   time.Now(),
		PG:          deps.PG,
		CH:          deps.CH,
	}
	if deps.RDS != nil {
		d.RDS = metahttp.PingFunc(func(ctx context.Context) error { return deps.RDS.Ping(ctx).Err() })
	}
	return &Module{
		Base: modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...),
		deps: d,
	}
}

var _ modkit.Module = (*Module)(nil)

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.Mount(r, func(sub httpkit.Router) { metahttp.Register(sub, m.deps) })
}

// Ports implements modkit.Module; meta offers none
func (m *Module) Ports() any { return nil }
