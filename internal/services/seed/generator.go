// Package seed generates and writes demo issues and events for local development
package seed

import (
	"strconv"
	"strings"
	"time"

	"eventscope/internal/services/api/groupevents/domain"

	"github.com/brianvoe/gofakeit/v6"
)

// Event is one generated occurrence plus the node payload stored for it
type Event struct {
	EventID     string
	ProjectID   int64
	GroupID     int64
	Timestamp   time.Time
	Environment string
	Release     string
	Level       string
	Message     string
	Title       string
	UserID      string
	UserEmail   string
	Username    string
	UserIP      string
	HTTPMethod  string
	StatusCode  uint16
	URL         string
	ErrorType   string
	ErrorValue  string
	Handled     bool
	Tags        [][2]string
	Node        map[string]any
}

// NodeID is the nodestore key of the event payload
func (e Event) NodeID() string { return domain.NodeID(e.ProjectID, e.EventID) }

var (
	levels     = []string{"error", "error", "error", "warning", "fatal"}
	errorTypes = []string{"TypeError", "ValueError", "KeyError", "TimeoutError", "ConnectionResetError"}
	browsers   = []string{"Chrome", "Firefox", "Safari", "Edge"}
	osNames    = []string{"Linux", "Windows", "macOS", "iOS", "Android"}
)

// Generator produces deterministic fixtures for a seed
type Generator struct {
	f *gofakeit.Faker
}

// NewGenerator returns a generator; equal seeds produce equal fixtures
func NewGenerator(seed int64) *Generator {
	return &Generator{f: gofakeit.New(seed)}
}

// ShortID builds an issue short id such as BACKEND-3F
func (g *Generator) ShortID(slug string, n int) string {
	return strings.ToUpper(slug) + "-" + strings.ToUpper(strconv.FormatInt(int64(n+100), 36))
}

// Events generates n events of one issue spread evenly over [start, end)
func (g *Generator) Events(projectID, groupID int64, envs []string, n int, start, end time.Time) []Event {
	if n <= 0 {
		return nil
	}
	step := end.Sub(start) / time.Duration(n)
	errType := g.f.RandomString(errorTypes)
	out := make([]Event, 0, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * step).Add(time.Duration(g.f.Number(0, 999)) * time.Millisecond).UTC()
		out = append(out, g.event(projectID, groupID, envs, errType, ts))
	}
	return out
}

func (g *Generator) event(projectID, groupID int64, envs []string, errType string, ts time.Time) Event {
	f := g.f
	env := ""
	if len(envs) > 0 {
		env = f.RandomString(envs)
	}
	e := Event{
		EventID:     strings.ReplaceAll(f.UUID(), "-", ""),
		ProjectID:   projectID,
		GroupID:     groupID,
		Timestamp:   ts,
		Environment: env,
		Release:     "backend@" + f.AppVersion(),
		Level:       f.RandomString(levels),
		ErrorType:   errType,
		ErrorValue:  f.HackerPhrase(),
		UserID:      f.UUID(),
		UserEmail:   f.Email(),
		Username:    f.Username(),
		UserIP:      f.IPv4Address(),
		HTTPMethod:  f.HTTPMethod(),
		StatusCode:  uint16(f.HTTPStatusCode()),
		URL:         f.URL(),
		Handled:     f.Bool(),
	}
	e.Message = e.ErrorType + ": " + e.ErrorValue
	e.Title = e.Message
	browser, osName := f.RandomString(browsers), f.RandomString(osNames)

	e.Tags = [][2]string{
		{"browser.name", browser},
		{"environment", env},
		{"level", e.Level},
		{"os.name", osName},
		{"release", e.Release},
		{"server_name", f.DomainName()},
	}
	e.Node = map[string]any{
		"event_id": e.EventID,
		"message":  e.Message,
		"title":    e.Title,
		"platform": "python",
		"type":     "error",
		"exception": map[string]any{"values": []any{map[string]any{
			"type":      e.ErrorType,
			"value":     e.ErrorValue,
			"mechanism": map[string]any{"type": "generic", "handled": e.Handled},
		}}},
		"breadcrumbs": map[string]any{"values": []any{
			map[string]any{"category": "http", "message": e.HTTPMethod + " " + e.URL},
		}},
		"request": map[string]any{"method": e.HTTPMethod, "url": e.URL},
		"contexts": map[string]any{
			"browser": map[string]any{"name": browser},
			"os":      map[string]any{"name": osName},
		},
		"sdk": map[string]any{"name": "sentry.python", "version": "2.19.0"},
		"user": map[string]any{
			"id":         e.UserID,
			"email":      e.UserEmail,
			"username":   e.Username,
			"ip_address": e.UserIP,
		},
	}
	return e
}
