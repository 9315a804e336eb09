package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"eventscope/internal/platform/config"
	phttp "eventscope/internal/platform/net/http"
	"eventscope/internal/platform/net/middleware"
)

// CommonStack is the middleware every api route runs behind
// cfg is the CORE_API_ view; CORS_ORIGINS, SLOW_REQUEST and REQUEST_TIMEOUT tune it
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.AccessLog(middleware.AccessLogOptions{
			Slow: cfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		}),
		middleware.Recover(phttp.JSON),
		middleware.NoCache,
		// pagination and direct hit headers must be readable from browsers
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
			ExposedHeaders: []string{"Link", "X-Sentry-Direct-Hit", "X-Request-Id"},
			MaxAge:         300,
		}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes,
		middleware.Timeout(cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second)),
	}
}

// MountAPIV1 mounts fn's routes under /api/v1 behind mw
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, fn func(Router)) {
	r.Route("/api/v1", func(api Router) {
		api.Use(mw...)
		fn(api)
	})
}

// Protected mounts fn's routes behind bearer auth; a nil authenticator leaves them open
func Protected(r Router, a middleware.Authenticator, fn func(Router)) {
	r.Group(func(g Router) {
		g.Use(middleware.Auth(a, phttp.JSON))
		fn(g)
	})
}
