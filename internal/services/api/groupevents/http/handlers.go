// Package http provides http transport for group events
package http

import (
	stdhttp "net/http"
	"net/url"

	"eventscope/internal/core/paginator"
	"eventscope/internal/modkit/httpkit"
	pnet "eventscope/internal/platform/net"
	"eventscope/internal/platform/net/http/bind"
	"eventscope/internal/services/api/groupevents/domain"
	svc "eventscope/internal/services/api/groupevents/service"
)

// HeaderDirectHit marks responses served by the direct-hit path
const HeaderDirectHit = "X-Sentry-Direct-Hit"

// Register mounts group events endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// paged events of an issue, or the one event a direct hit names
	r.Get("/{issue_id}/events", httpkit.Handle(h.list))

	// one event with its neighbours; event_id may be latest or oldest
	r.Get("/{issue_id}/events/{event_id}", httpkit.Handle(h.detail))
}

type handlers struct{ svc svc.Service }

// swagger:route GET /issues/{issue_id}/events GroupEvents groupEventsList
// @Summary List the events of an issue
// @Description Filtered, time bounded and paginated events of one issue. A query that is exactly one event id
// @Description returns that event alone with X-Sentry-Direct-Hit: 1. Cursors are carried in the Link header.
// @Tags GroupEvents
// @Produce json
// @Security BearerAuth
// @Param issue_id path string true "Numeric issue id or short id"
// @Param query query string false "Search query"
// @Param environment query []string false "Environment names" collectionFormat(multi)
// @Param start query string false "Window start"
// @Param end query string false "Window end"
// @Param statsPeriod query string false "Relative window such as 24h or 14d"
// @Param full query string false "1 or true for full payloads"
// @Param sample query string false "1 or true for stable pseudo random order"
// @Param cursor query string false "Pagination cursor"
// @Param per_page query int false "Page size (1 to 100)"
// @Success 200 {array} domain.EventRecord "ok"
// @Failure 400 {object} httpkit.Envelope "invalid query or window"
// @Router /issues/{issue_id}/events [get]
func (h *handlers) list(r *stdhttp.Request) httpkit.Response {
	in, err := bind.Query[domain.ListInput](r)
	if err != nil {
		return httpkit.Error(err)
	}
	in.IssueRef = httpkit.Param(r, "issue_id")

	res, err := h.svc.List(r.Context(), in, viewerFrom(r))
	if err != nil {
		return httpkit.Error(err)
	}

	resp := httpkit.OK(res.Records)
	if res.DirectHit {
		return resp.WithHeader(HeaderDirectHit, "1")
	}
	if res.Paginated {
		resp = resp.
			WithHeader("Link", paginator.Link(requestURL(r), res.Prev, res.Next)).
			WithPage(httpkit.Page{
				PageSize: len(res.Records),
				Cursor:   in.Cursor,
				Prev:     res.Prev.String(),
				Next:     res.Next.String(),
			})
	}
	return resp
}

// swagger:route GET /issues/{issue_id}/events/{event_id} GroupEvents groupEventsDetail
// @Summary Get one event of an issue
// @Tags GroupEvents
// @Produce json
// @Security BearerAuth
// @Param issue_id path string true "Numeric issue id or short id"
// @Param event_id path string true "Event id, latest or oldest"
// @Param environment query []string false "Environment names" collectionFormat(multi)
// @Param statsPeriod query string false "Relative window"
// @Success 200 {object} domain.EventDetail "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /issues/{issue_id}/events/{event_id} [get]
func (h *handlers) detail(r *stdhttp.Request) httpkit.Response {
	in, err := bind.Query[domain.DetailInput](r)
	if err != nil {
		return httpkit.Error(err)
	}
	in.IssueRef = httpkit.Param(r, "issue_id")
	in.EventID = httpkit.Param(r, "event_id")

	d, err := h.svc.Detail(r.Context(), in, viewerFrom(r))
	if err != nil {
		return httpkit.Error(err)
	}
	return httpkit.OK(d)
}

// viewerFrom reads the caller set by the auth middleware
func viewerFrom(r *stdhttp.Request) domain.Viewer {
	c, _ := pnet.CallerFrom(r.Context())
	return domain.Viewer{UserID: c.UserID, OrgID: c.OrgID, Scopes: c.Scopes}
}

// requestURL is the absolute url the client called, used as the Link base
func requestURL(r *stdhttp.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		u.Scheme = p
	}
	return &u
}
