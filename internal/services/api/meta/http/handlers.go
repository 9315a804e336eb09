// Package http serves liveness, readiness and build info
package http

import (
	"context"
	"net/http"
	"time"

	"eventscope/internal/core/version"
	"eventscope/internal/modkit/httpkit"

	"golang.org/x/sync/errgroup"
)

// Pinger is any store that can be probed
type Pinger interface {
	Ping(context.Context) error
}

// PingFunc adapts a func to Pinger
type PingFunc func(context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Deps are the stores readiness probes; values that are not a Pinger report unknown
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	RDS         any // node cache, optional

	// ProbeTimeout bounds all pings of one readiness call, default 2s
	ProbeTimeout time.Duration
}

// Register mounts /health, /ready and /version
func Register(r httpkit.Router, d Deps) {
	if d.ProbeTimeout <= 0 {
		d.ProbeTimeout = 2 * time.Second
	}
	h := handlers{deps: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
}

type handlers struct{ deps Deps }

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"eventscope-api"`
	Started string `json:"started" example:"2026-10-19T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// Check is the outcome of probing one store
type Check struct {
	Name   string `json:"name"            example:"pg"`
	Status string `json:"status"          example:"ok" enums:"ok,fail,skipped,unknown"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432: connect: connection refused"`
}

// ReadyResponse is the readiness payload
type ReadyResponse struct {
	Status string  `json:"status" example:"ok" enums:"ok,degraded,fail"`
	Checks []Check `json:"checks"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

// @Summary Readiness of postgres, clickhouse and the node cache
// @Description fail (503) when postgres or clickhouse is down; degraded when only the cache is,
// @Description since nodes then come from postgres at higher latency
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.ProbeTimeout)
	defer cancel()

	targets := []any{h.deps.PG, h.deps.CH, h.deps.RDS}
	checks := []Check{{Name: "pg"}, {Name: "ch"}, {Name: "redis"}}

	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			checks[i] = probe(ctx, checks[i].Name, t)
			return nil
		})
	}
	_ = g.Wait()

	res := ReadyResponse{Status: overall(checks[0], checks[1], checks[2]), Checks: checks}
	if res.Status == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: res}, nil
	}
	return res, nil
}

func probe(ctx context.Context, name string, target any) Check {
	if target == nil {
		return Check{Name: name, Status: "skipped"}
	}
	p, ok := target.(Pinger)
	if !ok {
		return Check{Name: name, Status: "unknown"}
	}
	if err := p.Ping(ctx); err != nil {
		return Check{Name: name, Status: "fail", Error: err.Error()}
	}
	return Check{Name: name, Status: "ok"}
}

func overall(pg, ch, cache Check) string {
	switch {
	case pg.Status == "fail" || ch.Status == "fail":
		return "fail"
	case pg.Status != "ok" || ch.Status != "ok" || cache.Status == "fail":
		return "degraded"
	}
	return "ok"
}

// @Summary Build info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h handlers) version(*http.Request) (any, error) { return version.Info(), nil }
