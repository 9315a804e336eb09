// Package httpkit is the http surface modules build routes with
// modules import it instead of the platform transport packages
package httpkit

import (
	"net/http"

	phttp "eventscope/internal/platform/net/http"
)

type (
	Router   = phttp.Router
	Handler  = phttp.Handler
	Response = phttp.Response
	Envelope = phttp.Envelope
	Page     = phttp.Page
)

// OK is a 200 carrying data
func OK(data any) Response { return phttp.OK(data) }

// Error maps err to its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a return style handler
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Param returns a path parameter of the matched route
func Param(r *http.Request, name string) string { return phttp.Param(r, name) }

// Get mounts fn under GET; a returned Response is written as is, anything else as OK
func Get(r Router, path string, fn func(*http.Request) (any, error)) {
	r.Get(path, Handle(func(req *http.Request) Response {
		out, err := fn(req)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	}))
}
