package search

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// known search keys across every dataset
// datasets narrow this further when building storage queries
var registry = map[string]struct{}{
	"id":                   {},
	"event.type":           {},
	"environment":          {},
	"issue":                {},
	"issue.id":             {},
	"project":              {},
	"project.id":           {},
	"release":              {},
	"dist":                 {},
	"level":                {},
	"message":              {},
	"title":                {},
	"platform":             {},
	"timestamp":            {},
	"trace":                {},
	"url":                  {},
	"location":             {},
	"user.id":              {},
	"user.email":           {},
	"user.username":        {},
	"user.ip_address":      {},
	"sdk.name":             {},
	"sdk.version":          {},
	"os.name":              {},
	"browser.name":         {},
	"device.family":        {},
	"error.type":           {},
	"error.value":          {},
	"error.handled":        {},
	"error.mechanism":      {},
	"transaction":          {},
	"transaction.duration": {},
	"transaction.op":       {},
	"transaction.status":   {},
	"http.method":          {},
	"http.status_code":     {},
	"occurrence.type":      {},
	"last_seen()":          {},
	"first_seen()":         {},
}

var (
	folder = cases.Fold()
	foldMu sync.Mutex
)

// KnownKey reports whether key is valid in the grammar
func KnownKey(key string) bool {
	if key == "has" {
		return true
	}
	if strings.HasPrefix(key, "tags[") && strings.HasSuffix(key, "]") && len(key) > len("tags[]") {
		return true
	}
	_, ok := registry[key]
	return ok
}

// FoldKey case folds a key; tag names inside tags[...] keep their case
func FoldKey(key string) string {
	if len(key) > 5 && strings.EqualFold(key[:5], "tags[") {
		return "tags" + key[4:]
	}
	// cases.Caser is stateful, so serialize use of the shared one
	foldMu.Lock()
	defer foldMu.Unlock()
	folder.Reset()
	return folder.String(key)
}
