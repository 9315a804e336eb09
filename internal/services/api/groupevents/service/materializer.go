package service

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"eventscope/internal/services/api/groupevents/domain"
)

// entry interfaces in display order; logentry is shown as "message"
var entryKeys = []struct{ node, typ string }{
	{"exception", "exception"},
	{"stacktrace", "stacktrace"},
	{"threads", "threads"},
	{"logentry", "message"},
	{"spans", "spans"},
	{"breadcrumbs", "breadcrumbs"},
	{"request", "request"},
}

// Materializer renders page items for a viewer; it never does I/O
type Materializer struct{}

// Serialize renders items in order; full adds the node payload fields
func (Materializer) Serialize(items []domain.Item, v domain.Viewer, full bool) []domain.EventRecord {
	out := make([]domain.EventRecord, 0, len(items))
	pii := v.Has(domain.ScopePII)
	for _, it := range items {
		rec := summary(it.Event)
		if full && it.Hydrated() {
			fillFull(&rec, it.Node, pii)
		}
		out = append(out, rec)
	}
	return out
}

func summary(e domain.Event) domain.EventRecord {
	tags := append([]domain.Tag{}, e.Tags...)
	sort.SliceStable(tags, func(i, j int) bool { return tags[i].Key < tags[j].Key })
	return domain.EventRecord{
		ID:          e.EventID,
		EventID:     e.EventID,
		ProjectID:   strconv.FormatInt(e.ProjectID, 10),
		GroupID:     strconv.FormatInt(e.GroupID, 10),
		DateCreated: e.Timestamp.UTC().Format(time.RFC3339),
		Tags:        tags,
	}
}

func fillFull(rec *domain.EventRecord, node map[string]any, pii bool) {
	rec.Message = str(node["message"])
	if rec.Message == "" {
		if le, ok := node["logentry"].(map[string]any); ok {
			rec.Message = str(le["formatted"])
		}
	}
	rec.Title = str(node["title"])
	rec.Platform = str(node["platform"])
	rec.Type = str(node["type"])
	if rec.Type == "" {
		rec.Type = "default"
	}

	for _, k := range entryKeys {
		if data, ok := node[k.node]; ok && data != nil {
			rec.Entries = append(rec.Entries, map[string]any{"type": k.typ, "data": data})
		}
	}

	rec.Contexts = obj(node["contexts"])
	rec.SDK = obj(node["sdk"])
	if u := obj(node["user"]); u != nil {
		user := make(map[string]any, len(u))
		for k, val := range u {
			if k == "ip_address" && !pii {
				continue
			}
			user[k] = val
		}
		rec.User = user
	}

	if b, err := json.Marshal(node); err == nil {
		rec.Size = len(b)
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func obj(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}
