package repo

import (
	"context"
	"reflect"

	"eventscope/internal/platform/store"
)

// fakeRows scans each row positionally into the destinations by reflection
type fakeRows struct {
	data [][]any
	i    int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(row[i]))
	}
	return nil
}

func (r *fakeRows) Err() error        { return r.err }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

type call struct {
	sql  string
	args []any
}

// fakeQ is a postgres RowQuerier serving canned results
type fakeQ struct {
	rows  [][]any
	row   fakeRow
	err   error
	calls []call
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.calls = append(f.calls, call{sql, args})
	return nil, f.err
}

func (f *fakeQ) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.calls = append(f.calls, call{sql, args})
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRows{data: f.rows}, nil
}

func (f *fakeQ) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	f.calls = append(f.calls, call{sql, args})
	return f.row
}

// fakeCH is a clickhouse seam serving one canned result per query in order
type fakeCH struct {
	results [][][]any
	err     error
	calls   []call
}

func (f *fakeCH) Insert(context.Context, string, any) error { return nil }
func (f *fakeCH) Exec(context.Context, string, ...any) error { return nil }
func (f *fakeCH) Close() error                               { return nil }

func (f *fakeCH) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	f.calls = append(f.calls, call{sql, args})
	if f.err != nil {
		return nil, f.err
	}
	var data [][]any
	if n := len(f.calls) - 1; n < len(f.results) {
		data = f.results[n]
	}
	return &fakeRows{data: data}, nil
}
