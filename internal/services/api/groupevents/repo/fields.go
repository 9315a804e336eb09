package repo

import "eventscope/internal/services/api/groupevents/domain"

type colKind int

const (
	kindString colKind = iota
	kindNumber
	kindTime
	kindBool
	kindStringArray
	kindDuration // stored as milliseconds
)

// column maps a search key onto a column expression of one table
type column struct {
	expr string
	kind colKind
}

// dataset describes one clickhouse table and the keys it can filter on
type dataset struct {
	table    string
	freeText string // column matched by bare words
	columns  map[string]column
}

var shared = map[string]column{
	"id":              {"event_id", kindString},
	"project.id":      {"project_id", kindNumber},
	"environment":     {"environment", kindString},
	"release":         {"release", kindString},
	"platform":        {"platform", kindString},
	"timestamp":       {"timestamp", kindTime},
	"last_seen()":     {"timestamp", kindTime},
	"first_seen()":    {"timestamp", kindTime},
	"trace":           {"trace_id", kindString},
	"user.id":         {"user_id", kindString},
	"user.email":      {"user_email", kindString},
	"user.username":   {"user_username", kindString},
	"user.ip_address": {"user_ip", kindString},
	"sdk.name":        {"sdk_name", kindString},
	"sdk.version":     {"sdk_version", kindString},
	"http.method":     {"http_method", kindString},
}

var datasets = map[domain.Dataset]dataset{
	domain.DatasetEvents: {
		table:    "events",
		freeText: "message",
		columns: with(shared, map[string]column{
			"event.type":       {"type", kindString},
			"message":          {"message", kindString},
			"title":            {"title", kindString},
			"level":            {"level", kindString},
			"dist":             {"dist", kindString},
			"url":              {"url", kindString},
			"location":         {"location", kindString},
			"os.name":          {"os_name", kindString},
			"browser.name":     {"browser_name", kindString},
			"device.family":    {"device_family", kindString},
			"error.type":       {"error_type", kindStringArray},
			"error.value":      {"error_value", kindStringArray},
			"error.mechanism":  {"error_mechanism", kindStringArray},
			"error.handled":    {"error_handled", kindBool},
			"http.status_code": {"http_status_code", kindNumber},
		}),
	},
	domain.DatasetTransactions: {
		table:    "transactions",
		freeText: "transaction",
		columns: with(shared, map[string]column{
			"event.type":           {"'transaction'", kindString},
			"title":                {"transaction", kindString},
			"transaction":          {"transaction", kindString},
			"transaction.op":       {"transaction_op", kindString},
			"transaction.status":   {"transaction_status", kindString},
			"transaction.duration": {"duration", kindDuration},
			"http.status_code":     {"http_status_code", kindNumber},
			"os.name":              {"os_name", kindString},
			"browser.name":         {"browser_name", kindString},
		}),
	},
	domain.DatasetIssuePlatform: {
		table:    "search_issues",
		freeText: "message",
		columns: with(shared, map[string]column{
			"event.type":      {"'generic'", kindString},
			"message":         {"message", kindString},
			"title":           {"title", kindString},
			"level":           {"level", kindString},
			"occurrence.type": {"occurrence_type", kindNumber},
		}),
	},
}

func with(base, extra map[string]column) map[string]column {
	out := make(map[string]column, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Table returns the qualified table of ds
func Table(database string, ds domain.Dataset) string {
	d, ok := datasets[ds]
	if !ok {
		d = datasets[domain.DatasetEvents]
	}
	if database == "" {
		return d.table
	}
	return database + "." + d.table
}
