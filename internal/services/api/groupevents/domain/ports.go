package domain

import "context"

// SearchQuery is one page of a Filter
type SearchQuery struct {
	Filter Filter
	Offset int
	Limit  int
}

// Lookup addresses one event by id inside a project and window
// the caller checks the group of the returned event
type Lookup struct {
	EventID   string
	ProjectID int64
	Window    Window
	Dataset   Dataset
}

// EventRef points at a neighbouring event
type EventRef struct {
	ProjectID int64
	EventID   string
}

// EventStore is the columnar event storage engine
type EventStore interface {
	// Search returns the rows of one page in Filter order
	Search(ctx context.Context, q SearchQuery, referrer string) ([]Event, error)
	// Lookup returns nil when the event is missing or past retention
	Lookup(ctx context.Context, l Lookup, referrer string) (*Event, error)
	// Adjacent returns the events before and after ev by (timestamp, event_id)
	Adjacent(ctx context.Context, ev Event, f Filter) (prev, next *EventRef, err error)
	// Edge returns the newest (latest) or oldest event matching f
	Edge(ctx context.Context, f Filter, latest bool) (*Event, error)
}

// NodeStore returns node payloads keyed by Event.NodeID
type NodeStore interface {
	GetMany(ctx context.Context, events []Event) (map[string]map[string]any, error)
}

// IssueRepo loads issues by numeric id or short id; missing issues are perr not found
type IssueRepo interface {
	ByRef(ctx context.Context, orgID int64, ref string) (Issue, error)
}

// EnvironmentRepo resolves environment names; missing names are perr not found
type EnvironmentRepo interface {
	Resolve(ctx context.Context, orgID int64, names []string) ([]Environment, error)
}

// ServicePort is what the http layer and other modules call
type ServicePort interface {
	List(ctx context.Context, in ListInput, v Viewer) (ListResult, error)
	Detail(ctx context.Context, in DetailInput, v Viewer) (*EventDetail, error)
}
