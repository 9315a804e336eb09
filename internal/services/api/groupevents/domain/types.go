// Package domain holds the issue event listing types, ports and DTOs
package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"eventscope/internal/core/search"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category is the issue category, used to pick the dataset and referrer
type Category int

// known categories
const (
	CategoryError Category = iota
	CategoryPerformance
	CategoryFeedback
	CategoryCron
	CategoryUptime
)

var categoryNames = map[Category]string{
	CategoryError:       "error",
	CategoryPerformance: "performance",
	CategoryFeedback:    "feedback",
	CategoryCron:        "cron",
	CategoryUptime:      "uptime",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseCategory maps a stored category name to a Category, defaulting to error
func ParseCategory(s string) Category {
	s = cases.Lower(language.Und).String(strings.TrimSpace(s))
	for c, n := range categoryNames {
		if n == s {
			return c
		}
	}
	return CategoryError
}

// Issue is the read-only view of a group
type Issue struct {
	ID          int64
	ShortID     string
	ProjectID   int64
	ProjectSlug string
	OrgID       int64
	Category    Category
	FirstSeen   time.Time
	LastSeen    time.Time
}

// QualifiedShortID is the display id, e.g. BACKEND-3F
func (i Issue) QualifiedShortID() string { return i.ShortID }

// Environment is a resolved environment
type Environment struct {
	ID   int64
	Name string
}

// EnvironmentNames lists names in order
func EnvironmentNames(envs []Environment) []string {
	out := make([]string, 0, len(envs))
	for _, e := range envs {
		out = append(out, e.Name)
	}
	return out
}

// Tag is one key value pair indexed on the event row
type Tag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is the lightweight handle built from one storage row
type Event struct {
	EventID   string
	ProjectID int64
	GroupID   int64
	Timestamp time.Time
	Tags      []Tag
}

// NodeID keys the node payload of an event
func (e Event) NodeID() string { return NodeID(e.ProjectID, e.EventID) }

// NodeID is md5("<project>:<event>") in hex, the nodestore key
func NodeID(projectID int64, eventID string) string {
	sum := md5.Sum([]byte(strconv.FormatInt(projectID, 10) + ":" + eventID))
	return hex.EncodeToString(sum[:])
}

// Item is one page row; Node is nil unless the page was hydrated
type Item struct {
	Event
	Node map[string]any
}

// HydratedEvent is an Item whose node payload has been attached
type HydratedEvent = Item

// Hydrated reports whether the node payload is attached
func (i Item) Hydrated() bool { return i.Node != nil }

// Hydrate returns an independent item carrying node
func Hydrate(e Event, node map[string]any) Item {
	e.Tags = append([]Tag(nil), e.Tags...)
	return Item{Event: e, Node: node}
}

// Ordering selects the row order
type Ordering int

// orderings
const (
	OrderDefault Ordering = iota // timestamp desc, event_id desc
	OrderSample                  // stable hash of event_id
)

func (o Ordering) String() string {
	if o == OrderSample {
		return "sample"
	}
	return "default"
}

// Dataset is the storage dataset an issue's events live in
type Dataset string

// datasets
const (
	DatasetEvents        Dataset = "events"
	DatasetTransactions  Dataset = "transactions"
	DatasetIssuePlatform Dataset = "issue_platform"
)

// DatasetFor picks the dataset for a category
func DatasetFor(c Category) Dataset {
	switch c {
	case CategoryError:
		return DatasetEvents
	case CategoryPerformance:
		return DatasetTransactions
	default:
		return DatasetIssuePlatform
	}
}

// Window is the half open interval [Start, End)
type Window struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow is [now-period, now)
func DefaultWindow(now time.Time, period time.Duration) Window {
	now = now.UTC()
	return Window{Start: now.Add(-period), End: now}
}

// Contains reports whether t falls inside w
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Viewer is the caller the response is rendered for
type Viewer struct {
	UserID string
	OrgID  int64
	Scopes []string
}

// ScopePII lets a viewer see user ip addresses
const ScopePII = "event:pii"

// Has reports whether v holds scope
func (v Viewer) Has(scope string) bool {
	for _, s := range v.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// FilterSpec is the input to NewFilter
type FilterSpec struct {
	Predicate    search.Predicate
	ProjectIDs   []int64
	OrgID        int64
	GroupID      int64
	Window       Window
	Environments []string
	Ordering     Ordering
	Dataset      Dataset
}

// Filter is the immutable description of one search, shared by every page
type Filter struct {
	spec FilterSpec
}

// NewFilter copies spec into a Filter
func NewFilter(spec FilterSpec) Filter {
	spec.ProjectIDs = append([]int64(nil), spec.ProjectIDs...)
	spec.Environments = append([]string(nil), spec.Environments...)
	return Filter{spec: spec}
}

// Predicate returns the parsed query
func (f Filter) Predicate() search.Predicate { return f.spec.Predicate }

// ProjectIDs returns a copy of the project scope
func (f Filter) ProjectIDs() []int64 { return append([]int64(nil), f.spec.ProjectIDs...) }

// OrgID returns the organization scope
func (f Filter) OrgID() int64 { return f.spec.OrgID }

// GroupID returns the issue scope
func (f Filter) GroupID() int64 { return f.spec.GroupID }

// Window returns the time window
func (f Filter) Window() Window { return f.spec.Window }

// Environments returns a copy of the environment names
func (f Filter) Environments() []string { return append([]string(nil), f.spec.Environments...) }

// Ordering returns the row order
func (f Filter) Ordering() Ordering { return f.spec.Ordering }

// Dataset returns the storage dataset
func (f Filter) Dataset() Dataset { return f.spec.Dataset }

// WithWindow returns a copy of f over w
func (f Filter) WithWindow(w Window) Filter {
	spec := f.spec
	spec.Window = w
	return NewFilter(spec)
}
