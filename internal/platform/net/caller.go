// Package net holds request scoped values and the json envelope shared by transports
package net

import (
	"context"
	"slices"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Caller is the authenticated principal of a request
type Caller struct {
	UserID string
	OrgID  int64
	Scopes []string
}

// Has reports whether the caller was granted scope
func (c Caller) Has(scope string) bool { return slices.Contains(c.Scopes, scope) }

type callerKey struct{}

// WithCaller stores c on ctx
func WithCaller(ctx context.Context, c Caller) context.Context {
	c.Scopes = slices.Clone(c.Scopes)
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller set by the auth middleware
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// WithRequestID sets the id chi's RequestID middleware would have set
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, id)
}

// RequestID returns the request id on ctx, or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
