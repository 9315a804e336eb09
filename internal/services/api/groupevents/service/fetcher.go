package service

import (
	"context"

	"eventscope/internal/services/api/groupevents/domain"
)

// PageFetcher runs one immutable Filter page by page
type PageFetcher struct {
	filter   domain.Filter
	referrer string
	full     bool
	events   domain.EventStore
	nodes    domain.NodeStore
}

// NewPageFetcher binds f to the stores; full hydrates every page with one node read
func NewPageFetcher(f domain.Filter, referrer string, full bool, events domain.EventStore, nodes domain.NodeStore) *PageFetcher {
	return &PageFetcher{filter: f, referrer: referrer, full: full, events: events, nodes: nodes}
}

// Filter returns the filter every page is read with
func (p *PageFetcher) Filter() domain.Filter { return p.filter }

// FetchPage returns the rows at [offset, offset+limit) in filter order
func (p *PageFetcher) FetchPage(ctx context.Context, offset, limit int) ([]domain.Item, error) {
	rows, err := p.events.Search(ctx, domain.SearchQuery{Filter: p.filter, Offset: offset, Limit: limit}, p.referrer)
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, len(rows))
	if !p.full || len(rows) == 0 {
		for i, e := range rows {
			items[i] = domain.Item{Event: e}
		}
		return items, nil
	}

	nodes, err := p.nodes.GetMany(ctx, rows)
	if err != nil {
		return nil, err
	}
	for i, e := range rows {
		items[i] = domain.Hydrate(e, nodeOrEmpty(nodes, e))
	}
	return items, nil
}
