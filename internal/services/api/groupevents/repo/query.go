package repo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventscope/internal/core/daterange"
	"eventscope/internal/core/search"
	perr "eventscope/internal/platform/errors"
	"eventscope/internal/services/api/groupevents/domain"
)

// Query is a clickhouse statement with positional ? args
type Query struct {
	SQL  string
	Args []any
}

const eventCols = "event_id, project_id, group_id, timestamp, tags.key, tags.value"

var orderings = map[domain.Ordering]string{
	domain.OrderDefault: "timestamp DESC, event_id DESC",
	domain.OrderSample:  "cityHash64(event_id) ASC, event_id ASC",
}

// BuildSearch renders one page of f
// it fails with a group events error when the predicate names a field the dataset lacks
func BuildSearch(database string, f domain.Filter, offset, limit int, now time.Time) (Query, error) {
	where, args, err := whereClause(f, now)
	if err != nil {
		return Query{}, err
	}
	order, ok := orderings[f.Ordering()]
	if !ok {
		order = orderings[domain.OrderDefault]
	}
	if offset < 0 {
		offset = 0
	}
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT %d OFFSET %d",
		eventCols, Table(database, f.Dataset()), strings.Join(where, " AND "), order, limit, offset)
	return Query{SQL: sql, Args: args}, nil
}

// BuildLookup renders the single row read of an event id in a project and window
func BuildLookup(database string, l domain.Lookup) Query {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE project_id = ? AND event_id = ? AND timestamp >= ? AND timestamp < ? AND deleted = 0 LIMIT 1",
		eventCols, Table(database, l.Dataset))
	return Query{SQL: sql, Args: []any{uint64(l.ProjectID), l.EventID, l.Window.Start, l.Window.End}}
}

// BuildEdge renders the newest (latest) or oldest event of f
func BuildEdge(database string, f domain.Filter, latest bool, now time.Time) (Query, error) {
	where, args, err := whereClause(f, now)
	if err != nil {
		return Query{}, err
	}
	order := "timestamp ASC, event_id ASC"
	if latest {
		order = orderings[domain.OrderDefault]
	}
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT 1",
		eventCols, Table(database, f.Dataset()), strings.Join(where, " AND "), order)
	return Query{SQL: sql, Args: args}, nil
}

// BuildAdjacent renders the neighbour of ev inside f by (timestamp, event_id)
func BuildAdjacent(database string, f domain.Filter, ev domain.Event, next bool, now time.Time) (Query, error) {
	where, args, err := whereClause(f, now)
	if err != nil {
		return Query{}, err
	}
	cmp, order := "<", "timestamp DESC, event_id DESC"
	if next {
		cmp, order = ">", "timestamp ASC, event_id ASC"
	}
	where = append(where, fmt.Sprintf("(timestamp %s ? OR (timestamp = ? AND event_id %s ?))", cmp, cmp))
	args = append(args, ev.Timestamp, ev.Timestamp, ev.EventID)
	sql := fmt.Sprintf("SELECT project_id, event_id FROM %s WHERE %s ORDER BY %s LIMIT 1",
		Table(database, f.Dataset()), strings.Join(where, " AND "), order)
	return Query{SQL: sql, Args: args}, nil
}

func whereClause(f domain.Filter, now time.Time) ([]string, []any, error) {
	ds, ok := datasets[f.Dataset()]
	if !ok {
		return nil, nil, perr.GroupEventsf("Unknown dataset %s", f.Dataset())
	}

	pids := f.ProjectIDs()
	projects := make([]uint64, len(pids))
	for i, p := range pids {
		projects[i] = uint64(p)
	}
	w := f.Window()

	where := []string{"project_id IN ?", "group_id = ?", "timestamp >= ?", "timestamp < ?", "deleted = 0"}
	args := []any{projects, uint64(f.GroupID()), w.Start, w.End}
	if envs := f.Environments(); len(envs) > 0 {
		where = append(where, "environment IN ?")
		args = append(args, envs)
	}

	for _, t := range f.Predicate().Terms() {
		cond, a, err := termCond(ds, t, now)
		if err != nil {
			return nil, nil, err
		}
		if t.Negated {
			cond = "NOT (" + cond + ")"
		}
		where = append(where, cond)
		args = append(args, a...)
	}
	return where, args, nil
}

// termCond renders t without its negation
func termCond(ds dataset, t search.Term, now time.Time) (string, []any, error) {
	switch {
	case t.FreeText():
		return fmt.Sprintf("positionCaseInsensitiveUTF8(%s, ?) > 0", ds.freeText), []any{t.Value()}, nil
	case t.Key == "has":
		return hasCond(ds, t.Value())
	}
	if name, ok := t.TagName(); ok {
		return stringCond("tags.value[indexOf(tags.key, ?)]", []any{name}, t)
	}

	col, ok := ds.columns[t.Key]
	if !ok {
		return "", nil, perr.GroupEventsf("Invalid search query: %s is not a searchable field for this issue", t.Key)
	}
	switch col.kind {
	case kindString:
		return stringCond(col.expr, nil, t)
	case kindStringArray:
		return arrayCond(col.expr, t)
	case kindNumber, kindDuration:
		return numberCond(col, t)
	case kindTime:
		return timeCond(col.expr, t, now)
	case kindBool:
		return boolCond(col.expr, t)
	}
	return "", nil, perr.GroupEventsf("Invalid search query: %s cannot be filtered", t.Key)
}

func hasCond(ds dataset, key string) (string, []any, error) {
	if name, ok := (search.Term{Key: key}).TagName(); ok {
		return "has(tags.key, ?)", []any{name}, nil
	}
	col, ok := ds.columns[key]
	if !ok {
		// anything the dataset has no column for is looked up as a tag
		return "has(tags.key, ?)", []any{key}, nil
	}
	switch col.kind {
	case kindString, kindStringArray:
		return "notEmpty(" + col.expr + ")", nil, nil
	case kindNumber, kindDuration, kindBool:
		return col.expr + " != 0", nil, nil
	default:
		return "1", nil, nil
	}
}

// stringCond compares expr; prefix args come before the value args
func stringCond(expr string, prefix []any, t search.Term) (string, []any, error) {
	args := append([]any(nil), prefix...)
	switch t.Op {
	case search.OpEq:
		if v := t.Value(); strings.Contains(v, "*") {
			return "like(" + expr + ", ?)", append(args, wildcard(v)), nil
		}
		return expr + " = ?", append(args, t.Value()), nil
	case search.OpIn:
		return expr + " IN ?", append(args, t.Values), nil
	}
	return "", nil, perr.GroupEventsf("Invalid search query: operator %s is not supported for %s", t.Op, t.Key)
}

func arrayCond(expr string, t search.Term) (string, []any, error) {
	if t.Op != search.OpEq && t.Op != search.OpIn {
		return "", nil, perr.GroupEventsf("Invalid search query: operator %s is not supported for %s", t.Op, t.Key)
	}
	parts := make([]string, 0, len(t.Values))
	args := make([]any, 0, len(t.Values))
	for _, v := range t.Values {
		if strings.Contains(v, "*") {
			parts = append(parts, "arrayExists(x -> like(x, ?), "+expr+")")
			args = append(args, wildcard(v))
			continue
		}
		parts = append(parts, "has("+expr+", ?)")
		args = append(args, v)
	}
	if len(parts) == 1 {
		return parts[0], args, nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args, nil
}

func numberCond(col column, t search.Term) (string, []any, error) {
	vals := make([]any, 0, len(t.Values))
	for _, raw := range t.Values {
		n, err := parseNumber(col.kind, raw)
		if err != nil {
			return "", nil, perr.GroupEventsf("Invalid search query: %s is not a valid value for %s", raw, t.Key)
		}
		vals = append(vals, n)
	}
	if t.Op == search.OpIn {
		return col.expr + " IN ?", []any{vals}, nil
	}
	return col.expr + " " + sqlOp(t.Op) + " ?", vals[:1], nil
}

func timeCond(expr string, t search.Term, now time.Time) (string, []any, error) {
	if t.Op == search.OpIn {
		return "", nil, perr.GroupEventsf("Invalid search query: lists are not supported for %s", t.Key)
	}
	raw := t.Value()

	// relative values such as -24h mean "within the last 24h"
	if strings.HasPrefix(raw, "-") || strings.HasPrefix(raw, "+") {
		d, err := daterange.ParsePeriod(raw[1:])
		if err != nil {
			return "", nil, perr.GroupEventsf("Invalid search query: %s is not a valid date for %s", raw, t.Key)
		}
		at := now.Add(-d)
		op := t.Op
		if op == search.OpEq {
			op = search.OpGte
			if raw[0] == '+' {
				op = search.OpLte
			}
		}
		return expr + " " + sqlOp(op) + " ?", []any{at}, nil
	}

	at, err := daterange.ParseTime(raw)
	if err != nil {
		return "", nil, perr.GroupEventsf("Invalid search query: %s is not a valid date for %s", raw, t.Key)
	}
	if t.Op == search.OpEq {
		if len(raw) == len("2006-01-02") {
			return "(" + expr + " >= ? AND " + expr + " < ?)", []any{at, at.Add(24 * time.Hour)}, nil
		}
		return expr + " = ?", []any{at}, nil
	}
	return expr + " " + sqlOp(t.Op) + " ?", []any{at}, nil
}

func boolCond(expr string, t search.Term) (string, []any, error) {
	if t.Op != search.OpEq {
		return "", nil, perr.GroupEventsf("Invalid search query: operator %s is not supported for %s", t.Op, t.Key)
	}
	switch strings.ToLower(t.Value()) {
	case "1", "true", "yes":
		return expr + " = ?", []any{uint8(1)}, nil
	case "0", "false", "no":
		return expr + " = ?", []any{uint8(0)}, nil
	}
	return "", nil, perr.GroupEventsf("Invalid search query: %s is not a boolean for %s", t.Value(), t.Key)
}

func sqlOp(op search.Op) string {
	if op == search.OpEq || op == "" {
		return "="
	}
	return string(op)
}

// parseNumber reads plain numbers; durations also take ms, s, m and h suffixes
func parseNumber(kind colKind, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if kind == kindDuration {
		for _, u := range []struct {
			suffix string
			ms     float64
		}{{"ms", 1}, {"s", 1000}, {"m", 60000}, {"h", 3600000}} {
			if strings.HasSuffix(raw, u.suffix) {
				n, err := strconv.ParseFloat(strings.TrimSuffix(raw, u.suffix), 64)
				return n * u.ms, err
			}
		}
	}
	return strconv.ParseFloat(raw, 64)
}

// wildcard turns a * pattern into a LIKE pattern
func wildcard(v string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`, "*", "%")
	return r.Replace(v)
}
