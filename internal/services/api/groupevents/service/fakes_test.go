package service

import (
	"context"
	"fmt"
	"hash/crc32"
	"sort"
	"strings"
	"sync"
	"time"

	"eventscope/internal/modkit/repokit"
	perr "eventscope/internal/platform/errors"
	"eventscope/internal/platform/store"
	"eventscope/internal/services/api/groupevents/domain"
	"eventscope/internal/services/api/groupevents/repo"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type storedEvent struct {
	domain.Event
	env string
}

// memEvents is an in-memory EventStore that honours filter scope and ordering
type memEvents struct {
	mu       sync.Mutex
	events   []storedEvent
	searches []domain.SearchQuery
	lookups  []domain.Lookup
	refs     []string
	err      error
}

func (m *memEvents) Search(_ context.Context, q domain.SearchQuery, referrer string) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, q)
	m.refs = append(m.refs, referrer)
	if m.err != nil {
		return nil, m.err
	}
	rows := m.matching(q.Filter)
	if q.Offset >= len(rows) {
		return nil, nil
	}
	end := q.Offset + q.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return append([]domain.Event(nil), rows[q.Offset:end]...), nil
}

func (m *memEvents) matching(f domain.Filter) []domain.Event {
	envs := map[string]bool{}
	for _, e := range f.Environments() {
		envs[e] = true
	}
	var out []domain.Event
	for _, e := range m.events {
		if e.GroupID != f.GroupID() || !f.Window().Contains(e.Timestamp) {
			continue
		}
		if len(envs) > 0 && !envs[e.env] {
			continue
		}
		out = append(out, e.Event)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if f.Ordering() == domain.OrderSample {
			ha, hb := crc32.ChecksumIEEE([]byte(a.EventID)), crc32.ChecksumIEEE([]byte(b.EventID))
			if ha != hb {
				return ha < hb
			}
			return a.EventID < b.EventID
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.EventID > b.EventID
	})
	return out
}

func (m *memEvents) Lookup(_ context.Context, l domain.Lookup, referrer string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, l)
	m.refs = append(m.refs, referrer)
	for _, e := range m.events {
		if e.EventID == l.EventID && e.ProjectID == l.ProjectID && l.Window.Contains(e.Timestamp) {
			ev := e.Event
			return &ev, nil
		}
	}
	return nil, nil
}

func (m *memEvents) Adjacent(_ context.Context, ev domain.Event, f domain.Filter) (prev, next *domain.EventRef, err error) {
	rows := m.matching(f)
	for i, e := range rows {
		if e.EventID != ev.EventID {
			continue
		}
		// rows are newest first, so the previous event is the next row
		if i+1 < len(rows) {
			prev = &domain.EventRef{ProjectID: rows[i+1].ProjectID, EventID: rows[i+1].EventID}
		}
		if i > 0 {
			next = &domain.EventRef{ProjectID: rows[i-1].ProjectID, EventID: rows[i-1].EventID}
		}
	}
	return prev, next, nil
}

func (m *memEvents) Edge(_ context.Context, f domain.Filter, latest bool) (*domain.Event, error) {
	rows := m.matching(f)
	if len(rows) == 0 {
		return nil, nil
	}
	ev := rows[len(rows)-1]
	if latest {
		ev = rows[0]
	}
	return &ev, nil
}

type memNodes struct {
	mu    sync.Mutex
	calls int
	sizes []int
}

func (m *memNodes) GetMany(_ context.Context, events []domain.Event) (map[string]map[string]any, error) {
	m.mu.Lock()
	m.calls++
	m.sizes = append(m.sizes, len(events))
	m.mu.Unlock()
	out := make(map[string]map[string]any, len(events))
	for _, e := range events {
		out[e.NodeID()] = map[string]any{
			"title":    "ZeroDivisionError: " + e.EventID,
			"platform": "python",
			"type":     "error",
			"user":     map[string]any{"id": "u1", "ip_address": "10.0.0.1"},
		}
	}
	return out, nil
}

// memRepo serves one issue and a fixed set of environments
type memRepo struct {
	issue domain.Issue
	envs  map[string]int64
}

func (r memRepo) ByRef(_ context.Context, _ int64, ref string) (domain.Issue, error) {
	if ref == fmt.Sprint(r.issue.ID) || strings.EqualFold(ref, r.issue.ShortID) {
		return r.issue, nil
	}
	return domain.Issue{}, perr.NotFoundf("Issue %s not found", ref)
}

func (r memRepo) Resolve(_ context.Context, _ int64, names []string) ([]domain.Environment, error) {
	var out []domain.Environment
	for _, n := range names {
		id, ok := r.envs[n]
		if !ok {
			return nil, perr.NotFoundf("Environment %s not found", n)
		}
		out = append(out, domain.Environment{ID: id, Name: n})
	}
	return out, nil
}

// nopDB satisfies repokit.TxRunner; the memory repo never touches it
type nopDB struct{}

func (nopDB) Exec(context.Context, string, ...any) (store.CommandTag, error) { return nil, nil }
func (nopDB) Query(context.Context, string, ...any) (store.Rows, error)      { return nil, nil }
func (nopDB) QueryRow(context.Context, string, ...any) store.Row             { return nil }
func (nopDB) Tx(ctx context.Context, fn func(store.RowQuerier) error) error  { return fn(nopDB{}) }

var testIssue = domain.Issue{ID: 1337, ShortID: "BACKEND-3F", ProjectID: 42, OrgID: 7, Category: domain.CategoryError}

// fixture returns n events of testIssue one minute apart, newest first, plus noise from another group
func fixture(n int) *memEvents {
	m := &memEvents{}
	for i := 0; i < n; i++ {
		env := "production"
		if i%3 == 0 {
			env = "staging"
		}
		m.events = append(m.events, storedEvent{
			Event: domain.Event{
				EventID:   fmt.Sprintf("%032x", i+1),
				ProjectID: 42,
				GroupID:   testIssue.ID,
				Timestamp: testNow.Add(-time.Duration(i+1) * time.Minute),
				Tags:      []domain.Tag{{Key: "level", Value: "error"}},
			},
			env: env,
		})
	}
	m.events = append(m.events, storedEvent{
		Event: domain.Event{EventID: "ffffffffffffffffffffffffffffffff", ProjectID: 42, GroupID: 9, Timestamp: testNow.Add(-time.Minute)},
		env:   "production",
	})
	return m
}

func newTestSvc(events *memEvents, nodes *memNodes) *Svc {
	r := memRepo{issue: testIssue, envs: map[string]int64{"production": 1, "staging": 2}}
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return r })
	return New(nopDB{}, binder, events, nodes, Options{Now: func() time.Time { return testNow }})
}

// failingCH is a clickhouse connection whose queries all fail with err
type failingCH struct{ err error }

func (f failingCH) Insert(context.Context, string, any) error { return nil }
func (f failingCH) Exec(context.Context, string, ...any) error { return nil }
func (f failingCH) Close() error                               { return nil }

func (f failingCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, f.err }
