package repo

import (
	"context"
	"time"

	perr "eventscope/internal/platform/errors"
	"eventscope/internal/platform/metrics"
	"eventscope/internal/platform/store"
	"eventscope/internal/platform/store/ch"
	"eventscope/internal/services/api/groupevents/domain"
)

// DefaultRetention is how far back event rows are kept
const DefaultRetention = 90 * 24 * time.Hour

// EventsOptions configures the clickhouse event store
type EventsOptions struct {
	// Database prefixes table names, empty uses the connection default
	Database string
	// Retention bounds every window; zero means DefaultRetention, negative disables it
	Retention time.Duration
	Now       func() time.Time
}

// Events is the clickhouse backed event store
type Events struct {
	ch        store.Clickhouse
	database  string
	retention time.Duration
	now       func() time.Time
}

var _ domain.EventStore = (*Events)(nil)

// NewEvents builds the event store over a clickhouse seam
func NewEvents(c store.Clickhouse, opt EventsOptions) *Events {
	if c == nil {
		panic("groupevents.Events requires a non nil clickhouse")
	}
	if opt.Retention == 0 {
		opt.Retention = DefaultRetention
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	return &Events{ch: c, database: opt.Database, retention: opt.Retention, now: opt.Now}
}

// Search returns one page of rows in filter order
func (s *Events) Search(ctx context.Context, q domain.SearchQuery, referrer string) ([]domain.Event, error) {
	now := s.now().UTC()
	w, err := s.clamp(q.Filter.Window(), now)
	if err != nil {
		return nil, err
	}
	sq, err := BuildSearch(s.database, q.Filter.WithWindow(w), q.Offset, q.Limit, now)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer metrics.ObserveSearch(referrer, start)
	return s.queryEvents(ch.WithReferrer(ctx, referrer), sq)
}

// Lookup reads one event by id; it is nil when missing or past retention
func (s *Events) Lookup(ctx context.Context, l domain.Lookup, referrer string) (*domain.Event, error) {
	w, err := s.clamp(l.Window, s.now().UTC())
	if err != nil {
		return nil, nil
	}
	l.Window = w

	start := time.Now()
	defer metrics.ObserveSearch(referrer, start)
	evs, err := s.queryEvents(ch.WithReferrer(ctx, referrer), BuildLookup(s.database, l))
	if err != nil || len(evs) == 0 {
		return nil, err
	}
	return &evs[0], nil
}

// Edge returns the newest or oldest event of f, nil when there is none
func (s *Events) Edge(ctx context.Context, f domain.Filter, latest bool) (*domain.Event, error) {
	now := s.now().UTC()
	w, err := s.clamp(f.Window(), now)
	if err != nil {
		return nil, nil
	}
	q, err := BuildEdge(s.database, f.WithWindow(w), latest, now)
	if err != nil {
		return nil, err
	}
	evs, err := s.queryEvents(ctx, q)
	if err != nil || len(evs) == 0 {
		return nil, err
	}
	return &evs[0], nil
}

// Adjacent returns the neighbours of ev inside f; both are nil past retention
func (s *Events) Adjacent(ctx context.Context, ev domain.Event, f domain.Filter) (prev, next *domain.EventRef, err error) {
	now := s.now().UTC()
	if s.retention > 0 && ev.Timestamp.Before(now.Add(-s.retention)) {
		return nil, nil, nil
	}
	w, err := s.clamp(f.Window(), now)
	if err != nil {
		return nil, nil, nil
	}
	f = f.WithWindow(w)

	if prev, err = s.adjacent(ctx, f, ev, false, now); err != nil {
		return nil, nil, err
	}
	if next, err = s.adjacent(ctx, f, ev, true, now); err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}

func (s *Events) adjacent(ctx context.Context, f domain.Filter, ev domain.Event, next bool, now time.Time) (*domain.EventRef, error) {
	q, err := BuildAdjacent(s.database, f, ev, next, now)
	if err != nil {
		return nil, err
	}
	rows, err := s.ch.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, perr.FromClickhouse(err, "query events")
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, perr.FromClickhouse(rows.Err(), "read events")
	}
	var (
		pid uint64
		id  string
	)
	if err := rows.Scan(&pid, &id); err != nil {
		return nil, perr.FromClickhouse(err, "scan events")
	}
	return &domain.EventRef{ProjectID: int64(pid), EventID: id}, perr.FromClickhouse(rows.Err(), "read events")
}

// clamp raises the window start to the retention floor
// a window that ends at or before the floor is out of retention
func (s *Events) clamp(w domain.Window, now time.Time) (domain.Window, error) {
	if s.retention < 0 {
		return w, nil
	}
	floor := now.Add(-s.retention)
	if !w.End.After(floor) {
		return domain.Window{}, perr.OutOfRetentionf("Invalid date range. Please try a more recent date range.")
	}
	if w.Start.Before(floor) {
		w.Start = floor
	}
	return w, nil
}

func (s *Events) queryEvents(ctx context.Context, q Query) ([]domain.Event, error) {
	rows, err := s.ch.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, perr.FromClickhouse(err, "query events")
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var (
			id         string
			pid, gid   uint64
			ts         time.Time
			keys, vals []string
		)
		if err := rows.Scan(&id, &pid, &gid, &ts, &keys, &vals); err != nil {
			return nil, perr.FromClickhouse(err, "scan events")
		}
		ev := domain.Event{EventID: id, ProjectID: int64(pid), GroupID: int64(gid), Timestamp: ts.UTC()}
		for i := range keys {
			if i < len(vals) {
				ev.Tags = append(ev.Tags, domain.Tag{Key: keys[i], Value: vals[i]})
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromClickhouse(err, "read events")
	}
	return out, nil
}
