package middleware

import (
	"net/http"

	pnet "eventscope/internal/platform/net"
)

// Authenticator resolves who is calling
type Authenticator interface {
	Authenticate(r *http.Request) (pnet.Caller, error)
}

// Auth stores the caller on the request context or writes the authenticator's error
// a nil authenticator lets every request through anonymously
func Auth(a Authenticator, write WriteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if a == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := a.Authenticate(r)
			if err != nil {
				status, env := pnet.Failure(err, pnet.RequestID(r.Context()))
				write(w, status, env)
				return
			}
			next.ServeHTTP(w, r.WithContext(pnet.WithCaller(r.Context(), c)))
		})
	}
}
