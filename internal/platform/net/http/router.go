package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is the function form routes are registered with
type Handler = func(stdhttp.ResponseWriter, *stdhttp.Request)

// Router is the routing surface modules mount against
// the api is read only so GET and HEAD are the only verbs
type Router interface {
	Get(pattern string, h Handler)
	Head(pattern string, h Handler)
	Handle(pattern string, h stdhttp.Handler)
	Use(mw ...func(stdhttp.Handler) stdhttp.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))
}

type chiRouter struct{ r chi.Router }

// AdaptChi exposes a chi router as a Router
func AdaptChi(r chi.Router) Router { return chiRouter{r: r} }

func (c chiRouter) Get(p string, h Handler)                          { c.r.Get(p, h) }
func (c chiRouter) Head(p string, h Handler)                         { c.r.Head(p, h) }
func (c chiRouter) Handle(p string, h stdhttp.Handler)               { c.r.Handle(p, h) }
func (c chiRouter) Use(mw ...func(stdhttp.Handler) stdhttp.Handler) { c.r.Use(mw...) }

func (c chiRouter) Group(fn func(Router)) {
	c.r.Group(func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

func (c chiRouter) Route(p string, fn func(Router)) {
	c.r.Route(p, func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

// Param returns a path parameter of the matched route
func Param(r *stdhttp.Request, name string) string { return chi.URLParam(r, name) }
