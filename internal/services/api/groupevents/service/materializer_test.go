package service

import (
	"testing"
	"time"

	"eventscope/internal/services/api/groupevents/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItem() domain.Item {
	ev := domain.Event{
		EventID:   "9fac2ceed9344f2bbfdd1fdacb0ed9b1",
		ProjectID: 42,
		GroupID:   1337,
		Timestamp: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
		Tags:      []domain.Tag{{Key: "server", Value: "web-1"}, {Key: "level", Value: "error"}},
	}
	return domain.Hydrate(ev, map[string]any{
		"logentry":    map[string]any{"formatted": "division by zero"},
		"title":       "ZeroDivisionError",
		"platform":    "python",
		"type":        "error",
		"exception":   map[string]any{"values": []any{map[string]any{"type": "ZeroDivisionError"}}},
		"breadcrumbs": map[string]any{"values": []any{}},
		"contexts":    map[string]any{"os": map[string]any{"name": "Linux"}},
		"user":        map[string]any{"id": "u1", "ip_address": "10.0.0.1"},
		"sdk":         map[string]any{"name": "sentry.python"},
	})
}

func TestSerialize_Summary(t *testing.T) {
	t.Parallel()

	recs := Materializer{}.Serialize([]domain.Item{sampleItem()}, viewer, false)
	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, "9fac2ceed9344f2bbfdd1fdacb0ed9b1", r.ID)
	assert.Equal(t, "42", r.ProjectID)
	assert.Equal(t, "1337", r.GroupID)
	assert.Equal(t, "2025-05-01T12:00:00Z", r.DateCreated)
	assert.Equal(t, []domain.Tag{{Key: "level", Value: "error"}, {Key: "server", Value: "web-1"}}, r.Tags)
	assert.Empty(t, r.Title)
	assert.Nil(t, r.Entries)
	assert.Zero(t, r.Size)
}

func TestSerialize_Full(t *testing.T) {
	t.Parallel()

	it := sampleItem()
	recs := Materializer{}.Serialize([]domain.Item{it}, viewer, true)
	r := recs[0]
	assert.Equal(t, "division by zero", r.Message)
	assert.Equal(t, "ZeroDivisionError", r.Title)
	assert.Equal(t, "python", r.Platform)
	require.Len(t, r.Entries, 2)
	assert.Equal(t, "exception", r.Entries[0]["type"])
	assert.Equal(t, "breadcrumbs", r.Entries[1]["type"])
	assert.Equal(t, "Linux", r.Contexts["os"].(map[string]any)["name"])
	assert.Equal(t, "sentry.python", r.SDK["name"])
	assert.Positive(t, r.Size)

	assert.NotContains(t, r.User, "ip_address")
	assert.Contains(t, it.Node["user"], "ip_address", "scrubbing must not touch the node")

	pii := domain.Viewer{UserID: "u1", Scopes: []string{domain.ScopePII}}
	r = Materializer{}.Serialize([]domain.Item{it}, pii, true)[0]
	assert.Equal(t, "10.0.0.1", r.User["ip_address"])
}

func TestSerialize_FullWithoutNodeIsSummary(t *testing.T) {
	t.Parallel()

	it := domain.Item{Event: sampleItem().Event}
	require.False(t, it.Hydrated())
	r := Materializer{}.Serialize([]domain.Item{it}, viewer, true)[0]
	assert.Equal(t, it.EventID, r.EventID)
	assert.Empty(t, r.Type)
	assert.Nil(t, r.Entries)
	assert.Zero(t, r.Size)
}

func TestSerialize_KeepsOrderAndEmpty(t *testing.T) {
	t.Parallel()

	a, b := sampleItem(), sampleItem()
	b.EventID = "0000000000000000000000000000000b"
	recs := Materializer{}.Serialize([]domain.Item{b, a}, viewer, false)
	assert.Equal(t, []string{b.EventID, a.EventID}, ids(recs))

	empty := Materializer{}.Serialize(nil, viewer, true)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
