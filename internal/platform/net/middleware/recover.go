package middleware

import (
	"net/http"
	"runtime/debug"

	perr "eventscope/internal/platform/errors"
	"eventscope/internal/platform/logger"
	pnet "eventscope/internal/platform/net"
)

// Recover turns a panic into a logged 500 envelope
func Recover(write WriteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				logger.C(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				status, env := pnet.Failure(perr.PanicErrf("panic recovered"), pnet.RequestID(r.Context()))
				write(w, status, env)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
