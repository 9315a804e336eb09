package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventscope/internal/platform/auth"
	"eventscope/internal/platform/config"
	phttp "eventscope/internal/platform/net/http"
	"eventscope/internal/platform/store"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCH struct{}

func (nopCH) Insert(context.Context, string, any) error { return nil }
func (nopCH) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, context.Canceled
}
func (nopCH) Exec(context.Context, string, ...any) error { return nil }
func (nopCH) Close() error                               { return nil }

type noRow struct{}

func (noRow) Scan(...any) error { return context.Canceled }

type nopPG struct{}

func (nopPG) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopPG) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, context.Canceled
}
func (nopPG) QueryRow(context.Context, string, ...any) store.Row { return noRow{} }
func (p nopPG) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	return fn(p)
}

const secret = "test-secret"

func newAPI(t *testing.T, env map[string]string) *chi.Mux {
	t.Helper()
	for k, v := range env {
		t.Setenv("APITEST_"+k, v)
	}
	cfg := config.New().Prefix("APITEST_")

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), Options{
		Config:        cfg,
		Store:         &store.Store{PG: nopPG{}, CH: nopCH{}},
		EnableSwagger: true,
		Auth:          NewVerifier(cfg),
	})
	return mux
}

func token(t *testing.T) string {
	t.Helper()
	tok, err := auth.NewVerifier(secret, "").Sign(auth.Claims{UserID: "u1", OrgID: "7"}, time.Minute)
	require.NoError(t, err)
	return tok
}

func do(mux http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestMount_Surfaces(t *testing.T) {
	mux := newAPI(t, map[string]string{"JWT_SECRET": secret})

	cases := []struct {
		name   string
		path   string
		bearer string
		want   int
	}{
		{"metrics", "/metrics", "", http.StatusOK},
		{"docs", "/api/docs/doc.json", "", http.StatusOK},
		{"health is public", "/api/v1/meta/health", "", http.StatusOK},
		{"events need a token", "/api/v1/issues/1/events", "", http.StatusUnauthorized},
		{"bad token", "/api/v1/issues/1/events", "nope", http.StatusUnauthorized},
		{"unknown route", "/api/v1/nothing", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(mux, tc.path, tc.bearer)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestMount_AuthenticatedReachesHandler(t *testing.T) {
	mux := newAPI(t, map[string]string{"JWT_SECRET": secret})

	rec := do(mux, "/api/v1/issues/1/events", token(t))
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
	assert.NotEqual(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestMount_RateLimitsPerCaller(t *testing.T) {
	mux := newAPI(t, map[string]string{
		"JWT_SECRET": secret,
		"RATE_RPS":   "0.001",
		"RATE_BURST": "1",
	})
	tok := token(t)

	first := do(mux, "/api/v1/issues/1/events", tok)
	assert.NotEqual(t, http.StatusTooManyRequests, first.Code)

	second := do(mux, "/api/v1/issues/1/events", tok)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// meta sits outside the limiter
	assert.Equal(t, http.StatusOK, do(mux, "/api/v1/meta/health", "").Code)
}

func TestNewVerifier(t *testing.T) {
	t.Setenv("APITEST_JWT_SECRET", "")
	assert.Nil(t, NewVerifier(config.New().Prefix("APITEST_")))

	t.Setenv("APITEST_JWT_SECRET", secret)
	assert.NotNil(t, NewVerifier(config.New().Prefix("APITEST_")))
}
