// Package modkit describes api modules and mounts them
//
// A module embeds Base, built with Build from its default name and prefix,
// and registers its routes inside Base.Mount.
package modkit

import (
	"net/http"
	"strings"

	"eventscope/internal/modkit/httpkit"
	"eventscope/internal/modkit/repokit"
	"eventscope/internal/platform/config"
	"eventscope/internal/platform/logger"
	"eventscope/internal/platform/store"

	"github.com/redis/go-redis/v9"
)

// Deps are the shared handles modules are built from
type Deps struct {
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
	RDS redis.UniversalClient // nil when the cache is disabled
}

// Module is one mountable slice of the api
type Module interface {
	Name() string
	Prefix() string
	MountRoutes(r httpkit.Router)

	// Ports is what the module offers other modules, nil for none
	Ports() any
}

// Option overrides part of a Base
type Option func(*Base)

// WithName sets the module name used in logs
func WithName(name string) Option { return func(b *Base) { b.name = name } }

// WithPrefix sets the path the module mounts under
func WithPrefix(prefix string) Option { return func(b *Base) { b.prefix = prefix } }

// WithMiddlewares appends per module middleware
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Base) { b.mw = append(b.mw, mw...) }
}

// Base is the part every module shares
type Base struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
}

// Build applies opts in order; it panics on an empty name or prefix since both are programmer input
func Build(opts ...Option) Base {
	var b Base
	for _, o := range opts {
		o(&b)
	}
	if strings.TrimSpace(b.name) == "" {
		panic("modkit: module name is required")
	}
	b.prefix = "/" + strings.Trim(strings.TrimSpace(b.prefix), "/")
	if b.prefix == "/" {
		panic("modkit: module " + b.name + " needs a prefix")
	}
	b.mw = append([]func(http.Handler) http.Handler(nil), b.mw...)
	return b
}

func (b Base) Name() string   { return b.name }
func (b Base) Prefix() string { return b.prefix }

// Mount runs register on a subrouter at the prefix behind the module middleware
func (b Base) Mount(r httpkit.Router, register func(httpkit.Router)) {
	r.Route(b.prefix, func(sub httpkit.Router) {
		sub.Use(b.mw...)
		register(sub)
	})
}

// MountAll mounts mods on r in order
func MountAll(r httpkit.Router, mods ...Module) {
	log := logger.Named("modkit")
	for _, m := range mods {
		m.MountRoutes(r)
		log.Debug().Str("module", m.Name()).Str("prefix", m.Prefix()).Msg("module mounted")
	}
}

// PortsOf asserts m's ports to T
func PortsOf[T any](m Module) (T, bool) {
	t, ok := m.Ports().(T)
	return t, ok
}
