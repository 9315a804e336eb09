// Package middleware is the http middleware the api mounts
//
// chi's stock middlewares are re-exported here so callers never import chi directly.
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// WriteFunc writes a json body with status; phttp.JSON satisfies it
type WriteFunc func(w http.ResponseWriter, status int, body any)

var (
	// RealIP rewrites RemoteAddr from X-Forwarded-For and X-Real-IP
	RealIP          = chimw.RealIP
	NoCache         = chimw.NoCache
	RedirectSlashes = chimw.RedirectSlashes
)

// RequestID propagates X-Request-Id or mints one, and echoes it on the response
func RequestID(next http.Handler) http.Handler {
	return chimw.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			w.Header().Set(chimw.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	}))
}

// Heartbeat answers path with 200 before routing
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Compress gzips and deflates responses at level
func Compress(level int) func(http.Handler) http.Handler { return chimw.Compress(level) }

// CORSOptions are the knobs the api sets on go-chi/cors
type CORSOptions struct {
	AllowedOrigins []string
	ExposedHeaders []string
	MaxAge         int
}

// CORS allows read only cross origin calls
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	origins := o.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "X-Request-Id"},
		ExposedHeaders: o.ExposedHeaders,
		MaxAge:         o.MaxAge,
	})
}
