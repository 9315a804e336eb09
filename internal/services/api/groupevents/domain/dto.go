package domain

import (
	"net/url"

	"eventscope/internal/core/paginator"
)

// ListInput is the query string of GET /issues/{issue_id}/events
type ListInput struct {
	IssueRef string `json:"-"`

	Query            string   `query:"query" json:"query,omitempty" validate:"max=4096" example:"level:error !environment:dev"`
	Environments     []string `query:"environment" json:"environment,omitempty" validate:"max=64,dive,min=1,max=64" example:"production"`
	Start            string   `query:"start" json:"start,omitempty" example:"2025-05-01T00:00:00Z"`
	End              string   `query:"end" json:"end,omitempty" example:"2025-05-02T00:00:00Z"`
	StatsPeriod      string   `query:"statsPeriod" json:"statsPeriod,omitempty" example:"14d"`
	StatsPeriodStart string   `query:"statsPeriodStart" json:"statsPeriodStart,omitempty"`
	StatsPeriodEnd   string   `query:"statsPeriodEnd" json:"statsPeriodEnd,omitempty"`
	Full             bool     `query:"full" json:"full,omitempty" example:"true"`
	Sample           bool     `query:"sample" json:"sample,omitempty"`
	Cursor           string   `query:"cursor" json:"cursor,omitempty" example:"0:100:0"`
	PerPage          int      `query:"per_page" json:"per_page,omitempty" validate:"omitempty,min=1,max=100" example:"100"`
}

// WindowValues returns the date range parameters as url values
func (in ListInput) WindowValues() url.Values {
	v := url.Values{}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("start", in.Start)
	set("end", in.End)
	set("statsPeriod", in.StatsPeriod)
	set("statsPeriodStart", in.StatsPeriodStart)
	set("statsPeriodEnd", in.StatsPeriodEnd)
	return v
}

// ListResult is a rendered page
type ListResult struct {
	Records   []EventRecord
	DirectHit bool

	// cursors are zero for direct hits and empty results
	Paginated bool
	Prev      paginator.Cursor
	Next      paginator.Cursor
}

// DetailInput addresses one event of an issue
type DetailInput struct {
	IssueRef     string   `json:"-"`
	EventID      string   `json:"-"` // an id, "latest" or "oldest"
	Environments []string `query:"environment" json:"environment,omitempty" validate:"max=64,dive,min=1,max=64"`
	Start        string   `query:"start" json:"start,omitempty"`
	End          string   `query:"end" json:"end,omitempty"`
	StatsPeriod  string   `query:"statsPeriod" json:"statsPeriod,omitempty"`
}

// WindowValues returns the date range parameters as url values
func (in DetailInput) WindowValues() url.Values {
	return ListInput{Start: in.Start, End: in.End, StatsPeriod: in.StatsPeriod}.WindowValues()
}

// EventRecord is one serialized event; the fields after Tags are only set for full records
type EventRecord struct {
	ID          string `json:"id" example:"9fac2ceed9344f2bbfdd1fdacb0ed9b1"`
	EventID     string `json:"eventID" example:"9fac2ceed9344f2bbfdd1fdacb0ed9b1"`
	ProjectID   string `json:"projectID" example:"42"`
	GroupID     string `json:"groupID" example:"1337"`
	DateCreated string `json:"dateCreated" example:"2025-05-01T12:00:00Z"`
	Tags        []Tag  `json:"tags"`

	Message  string           `json:"message,omitempty"`
	Title    string           `json:"title,omitempty"`
	Platform string           `json:"platform,omitempty"`
	Type     string           `json:"type,omitempty"`
	Entries  []map[string]any `json:"entries,omitempty"`
	Contexts map[string]any   `json:"contexts,omitempty"`
	User     map[string]any   `json:"user,omitempty"`
	SDK      map[string]any   `json:"sdk,omitempty"`
	Size     int              `json:"size,omitempty"`
}

// EventDetail is a full record plus its neighbours inside the issue
type EventDetail struct {
	EventRecord
	PreviousEventID *string `json:"previousEventID"`
	NextEventID     *string `json:"nextEventID"`
}
