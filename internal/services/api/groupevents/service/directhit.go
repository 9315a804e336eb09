package service

import (
	"context"
	"strings"

	"eventscope/internal/core/search"
	"eventscope/internal/platform/metrics"
	"eventscope/internal/services/api/groupevents/domain"

	"github.com/google/uuid"
)

// FilterParams is the scope a direct hit is looked up in
// it carries no environments, a direct hit ignores them
type FilterParams struct {
	ProjectID int64
	Window    domain.Window
	Dataset   domain.Dataset
	Referrer  string
}

// DirectHitDetector short-circuits searches that are exactly one event id
type DirectHitDetector struct {
	Events domain.EventStore
	Nodes  domain.NodeStore
}

// Detect looks the event up when pred is a lone event id; ok is false on any miss
func (d DirectHitDetector) Detect(ctx context.Context, pred search.Predicate, p FilterParams, issue domain.Issue) (*domain.HydratedEvent, bool, error) {
	ref := DirectHitReferrer(p.Referrer)
	id, ok := DirectHitID(pred)
	if !ok {
		metrics.DirectHits.WithLabelValues(ref, "skip").Inc()
		return nil, false, nil
	}

	ev, err := d.Events.Lookup(ctx, domain.Lookup{
		EventID:   id,
		ProjectID: p.ProjectID,
		Window:    p.Window,
		Dataset:   p.Dataset,
	}, ref)
	if err != nil {
		return nil, false, err
	}
	if ev == nil || ev.GroupID != issue.ID {
		metrics.DirectHits.WithLabelValues(ref, "miss").Inc()
		return nil, false, nil
	}

	nodes, err := d.Nodes.GetMany(ctx, []domain.Event{*ev})
	if err != nil {
		return nil, false, err
	}
	h := domain.Hydrate(*ev, nodeOrEmpty(nodes, *ev))
	metrics.DirectHits.WithLabelValues(ref, "hit").Inc()
	return &h, true, nil
}

// DirectHitID returns the normalized event id when pred is a single positive
// free text or id term holding an event id
func DirectHitID(pred search.Predicate) (string, bool) {
	if pred.Len() != 1 {
		return "", false
	}
	t := pred.Terms()[0]
	if t.Negated || t.Op != search.OpEq || len(t.Values) != 1 {
		return "", false
	}
	if !t.FreeText() && t.Key != "id" {
		return "", false
	}
	return NormalizeEventID(t.Value())
}

// NormalizeEventID accepts 32 hex chars or a dashed uuid and returns 32 lower hex chars
func NormalizeEventID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 32 && len(s) != 36 {
		return "", false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return strings.ReplaceAll(u.String(), "-", ""), true
}

func nodeOrEmpty(nodes map[string]map[string]any, ev domain.Event) map[string]any {
	if n, ok := nodes[ev.NodeID()]; ok && n != nil {
		return n
	}
	return map[string]any{}
}
