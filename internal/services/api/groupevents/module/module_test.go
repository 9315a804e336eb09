package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	modkit "eventscope/internal/modkit"
	"eventscope/internal/platform/config"
	phttp "eventscope/internal/platform/net/http"
	"eventscope/internal/platform/store"
	gedom "eventscope/internal/services/api/groupevents/domain"

	"github.com/go-chi/chi/v5"
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
func (p nopPG) Tx(ctx context.Context, fn func(q store.RowQuerier) error) error {
	return fn(p)
}

func TestFromConfig_Defaults(t *testing.T) {
	t.Setenv("GE_TEST_RETENTION_DAYS", "30")
	t.Setenv("GE_TEST_NODE_CACHE_TTL", "1m")

	o := FromConfig(config.New().Prefix("GE_TEST_"))
	if o.Retention != 30*24*time.Hour {
		t.Fatalf("retention = %s", o.Retention)
	}
	if o.DefaultWindow != 90*24*time.Hour {
		t.Fatalf("default window = %s", o.DefaultWindow)
	}
	if o.NodeCacheTTL != time.Minute {
		t.Fatalf("node ttl = %s", o.NodeCacheTTL)
	}
	if o.MaxLimit != 100 {
		t.Fatalf("max limit = %d", o.MaxLimit)
	}
}

func TestNew_MountsUnderIssues(t *testing.T) {
	t.Parallel()

	m := New(modkit.Deps{PG: nopPG{}, CH: nopCH{}}, Options{})
	if m.Name() != "groupevents" || m.Prefix() != "/issues" {
		t.Fatalf("name/prefix = %q %q", m.Name(), m.Prefix())
	}
	if _, ok := m.Ports().(gedom.ServicePort); !ok {
		t.Fatalf("ports should implement ServicePort, got %T", m.Ports())
	}
	if _, ok := modkit.PortsOf[gedom.ServicePort](m); !ok {
		t.Fatalf("PortsOf did not find the service port")
	}

	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))

	// an unknown issue renders as an empty list; the stub pg never finds a row
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/issues/1/events", nil))
	if rec.Code == http.StatusNotFound || rec.Code == http.StatusMethodNotAllowed {
		t.Fatalf("events route not mounted, status %d", rec.Code)
	}
}

func TestNew_PanicsWithoutClickhouse(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for nil clickhouse")
		}
	}()
	New(modkit.Deps{PG: nopPG{}}, Options{})
}
