// Package service contains the issue event listing workflows
package service

import (
	"context"
	"time"

	"eventscope/internal/core/paginator"
	"eventscope/internal/core/search"
	"eventscope/internal/modkit/repokit"
	perr "eventscope/internal/platform/errors"
	"eventscope/internal/platform/logger"
	"eventscope/internal/services/api/groupevents/domain"
	"eventscope/internal/services/api/groupevents/repo"
)

// Service defines the group events service contract
type Service interface {
	domain.ServicePort
}

// Options tunes the service; zero values pick the defaults
type Options struct {
	DefaultPeriod time.Duration
	MaxLimit      int
	Now           func() time.Time
}

// Svc implements the group events service
type Svc struct {
	Repo   repo.Repo
	Events domain.EventStore
	Nodes  domain.NodeStore

	resolver QueryResolver
	windows  WindowResolver
	direct   DirectHitDetector
	mat      Materializer
	maxLimit int
	now      func() time.Time
}

var _ Service = (*Svc)(nil)

// New constructs a group events service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], events domain.EventStore, nodes domain.NodeStore, opt Options) *Svc {
	if db == nil {
		panic("groupevents.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("groupevents.Service requires a non nil Repo binder")
	}
	if events == nil || nodes == nil {
		panic("groupevents.Service requires an EventStore and a NodeStore")
	}
	now := opt.Now
	if now == nil {
		now = time.Now
	}
	return &Svc{
		Repo:     binder.Bind(db),
		Events:   events,
		Nodes:    nodes,
		windows:  WindowResolver{DefaultPeriod: opt.DefaultPeriod},
		direct:   DirectHitDetector{Events: events, Nodes: nodes},
		maxLimit: opt.MaxLimit,
		now:      now,
	}
}

// List returns one page of an issue's events, or the single event a direct hit names
func (s *Svc) List(ctx context.Context, in domain.ListInput, v domain.Viewer) (domain.ListResult, error) {
	cur, err := paginator.ParseCursor(in.Cursor)
	if err != nil {
		return domain.ListResult{}, err
	}

	p, err := s.plan(ctx, in, v)
	if err != nil || p.done != nil {
		return p.result(), err
	}

	page, err := paginator.Offset[domain.Item]{Fetcher: p.fetcher, MaxLimit: s.maxLimit}.Page(ctx, cur, in.PerPage)
	if err != nil {
		return domain.ListResult{}, err
	}

	return domain.ListResult{
		Records:   s.mat.Serialize(page.Items, v, in.Full),
		Paginated: true,
		Prev:      page.Prev,
		Next:      page.Next,
	}, nil
}

// Walk returns every event List would page through, reading prefetch pages of
// in.PerPage at a time. The cursor is ignored
func (s *Svc) Walk(ctx context.Context, in domain.ListInput, v domain.Viewer, prefetch int) ([]domain.EventRecord, error) {
	p, err := s.plan(ctx, in, v)
	if err != nil || p.done != nil {
		return p.result().Records, err
	}

	limit := in.PerPage
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}
	items, err := paginator.Collect[domain.Item](ctx, p.fetcher, limit, 0, prefetch)
	if err != nil {
		return nil, err
	}
	return s.mat.Serialize(items, v, in.Full), nil
}

// listPlan is a list request resolved up to reading pages; done is set when
// no paging is needed
type listPlan struct {
	done    *domain.ListResult
	fetcher *PageFetcher
}

func (p listPlan) result() domain.ListResult {
	if p.done == nil {
		return domain.ListResult{}
	}
	return *p.done
}

func empty() listPlan {
	return listPlan{done: &domain.ListResult{Records: []domain.EventRecord{}}}
}

func (s *Svc) plan(ctx context.Context, in domain.ListInput, v domain.Viewer) (listPlan, error) {
	log := logger.C(ctx)

	issue, envs, err := s.scope(ctx, in.IssueRef, in.Environments, v)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			log.Debug().Str("issue", in.IssueRef).Err(err).Msg("groupevents: empty result for missing resource")
			return empty(), nil
		}
		return listPlan{}, err
	}

	res := s.resolver.Resolve(ctx, in.Query, issue, envs, v)
	switch res.Kind() {
	case domain.ResolvedInvalid:
		return listPlan{}, perr.InvalidQueryf("%s", res.Reason())
	case domain.ResolvedNoResults:
		return empty(), nil
	}
	pred := res.Predicate()

	now := s.now().UTC()
	window, explicit, err := s.windows.Resolve(in.WindowValues(), now)
	if err != nil {
		return listPlan{}, err
	}

	referrer := Referrer(issue.Category)
	dataset := domain.DatasetFor(issue.Category)

	hit, ok, err := s.direct.Detect(ctx, pred, FilterParams{
		ProjectID: issue.ProjectID,
		Window:    window,
		Dataset:   dataset,
		Referrer:  referrer,
	}, issue)
	if err != nil {
		return listPlan{}, err
	}
	if ok {
		return listPlan{done: &domain.ListResult{
			Records:   s.mat.Serialize([]domain.Item{*hit}, v, true),
			DirectHit: true,
		}}, nil
	}

	ordering := domain.OrderDefault
	if in.Sample {
		ordering = domain.OrderSample
	}
	filter := domain.NewFilter(domain.FilterSpec{
		Predicate:    pred,
		ProjectIDs:   []int64{issue.ProjectID},
		OrgID:        issue.OrgID,
		GroupID:      issue.ID,
		Window:       window,
		Environments: domain.EnvironmentNames(envs),
		Ordering:     ordering,
		Dataset:      dataset,
	})
	log.Debug().
		Int64("group_id", issue.ID).
		Str("dataset", string(dataset)).
		Str("ordering", ordering.String()).
		Bool("explicit_window", explicit).
		Str("query", pred.String()).
		Msg("groupevents: search")

	return listPlan{fetcher: NewPageFetcher(filter, referrer, in.Full, s.Events, s.Nodes)}, nil
}

// Detail returns one full event of an issue with the ids of its neighbours;
// EventID may be "latest" or "oldest"
func (s *Svc) Detail(ctx context.Context, in domain.DetailInput, v domain.Viewer) (*domain.EventDetail, error) {
	issue, envs, err := s.scope(ctx, in.IssueRef, in.Environments, v)
	if err != nil {
		return nil, err
	}
	window, _, err := s.windows.Resolve(in.WindowValues(), s.now().UTC())
	if err != nil {
		return nil, err
	}

	referrer := Referrer(issue.Category)
	filter := domain.NewFilter(domain.FilterSpec{
		Predicate:    search.Predicate{},
		ProjectIDs:   []int64{issue.ProjectID},
		OrgID:        issue.OrgID,
		GroupID:      issue.ID,
		Window:       window,
		Environments: domain.EnvironmentNames(envs),
		Dataset:      domain.DatasetFor(issue.Category),
	})

	var ev *domain.Event
	switch in.EventID {
	case "latest", "oldest":
		ev, err = s.Events.Edge(ctx, filter, in.EventID == "latest")
	default:
		id, ok := NormalizeEventID(in.EventID)
		if !ok {
			return nil, perr.WithField(perr.InvalidParamsf("Invalid event id %q", in.EventID), "event_id")
		}
		ev, err = s.Events.Lookup(ctx, domain.Lookup{
			EventID:   id,
			ProjectID: issue.ProjectID,
			Window:    window,
			Dataset:   filter.Dataset(),
		}, DetailReferrer(referrer))
	}
	if err != nil {
		return nil, err
	}
	if ev == nil || ev.GroupID != issue.ID {
		return nil, perr.NotFoundf("Event not found")
	}

	nodes, err := s.Nodes.GetMany(ctx, []domain.Event{*ev})
	if err != nil {
		return nil, err
	}
	recs := s.mat.Serialize([]domain.Item{domain.Hydrate(*ev, nodeOrEmpty(nodes, *ev))}, v, true)

	prev, next, err := s.Events.Adjacent(ctx, *ev, filter)
	if err != nil {
		return nil, err
	}
	return &domain.EventDetail{
		EventRecord:     recs[0],
		PreviousEventID: refID(prev),
		NextEventID:     refID(next),
	}, nil
}

// scope loads the issue and resolves the requested environments inside the viewer's org
func (s *Svc) scope(ctx context.Context, ref string, names []string, v domain.Viewer) (domain.Issue, []domain.Environment, error) {
	issue, err := s.Repo.ByRef(ctx, v.OrgID, ref)
	if err != nil {
		return domain.Issue{}, nil, err
	}
	if len(names) == 0 {
		return issue, nil, nil
	}
	envs, err := s.Repo.Resolve(ctx, issue.OrgID, names)
	if err != nil {
		return domain.Issue{}, nil, err
	}
	return issue, envs, nil
}

func refID(r *domain.EventRef) *string {
	if r == nil {
		return nil
	}
	id := r.EventID
	return &id
}
