package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "eventscope/internal/platform/errors"
	"eventscope/internal/services/api/groupevents/domain"

	"github.com/jackc/pgx/v5"
)

func issueRow() []any {
	ts := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	return []any{int64(1337), "BACKEND-3F", int64(42), "backend", int64(7), "performance", ts, ts.Add(time.Hour)}
}

func TestByRef_NumericID(t *testing.T) {
	t.Parallel()

	q := &fakeQ{row: fakeRow{vals: issueRow()}}
	iss, err := NewPG().Bind(q).ByRef(context.Background(), 7, "1337")
	if err != nil {
		t.Fatalf("ByRef error: %v", err)
	}
	if iss.ID != 1337 || iss.ProjectID != 42 || iss.Category != domain.CategoryPerformance {
		t.Fatalf("unexpected issue %+v", iss)
	}
	args := q.calls[0].args
	if args[0] != int64(7) || args[1] != int64(1337) || args[2] != "" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestByRef_ShortID(t *testing.T) {
	t.Parallel()

	q := &fakeQ{row: fakeRow{vals: issueRow()}}
	if _, err := NewPG().Bind(q).ByRef(context.Background(), 7, "backend-3f"); err != nil {
		t.Fatalf("ByRef error: %v", err)
	}
	args := q.calls[0].args
	if args[1] != int64(0) || args[2] != "backend-3f" {
		t.Fatalf("short id should be matched by text, got %v", args)
	}
}

func TestByRef_NotFound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		ref  string
		row  fakeRow
	}{
		{"no rows", "99", fakeRow{err: pgx.ErrNoRows}},
		{"blank ref", "  ", fakeRow{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPG().Bind(&fakeQ{row: tc.row}).ByRef(context.Background(), 1, tc.ref)
			if !perr.IsCode(err, perr.ErrorCodeNotFound) {
				t.Fatalf("want not found, got %v", err)
			}
		})
	}
}

func TestByRef_DBError(t *testing.T) {
	t.Parallel()

	_, err := NewPG().Bind(&fakeQ{row: fakeRow{err: errors.New("conn reset")}}).ByRef(context.Background(), 1, "1")
	if err == nil || perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want a db error, got %v", err)
	}
}

func TestResolve_KeepsRequestOrder(t *testing.T) {
	t.Parallel()

	q := &fakeQ{rows: [][]any{{int64(2), "staging"}, {int64(1), "production"}}}
	envs, err := NewPG().Bind(q).Resolve(context.Background(), 7, []string{"production", "staging", "production"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(envs) != 2 || envs[0].Name != "production" || envs[1].ID != 2 {
		t.Fatalf("unexpected envs %+v", envs)
	}
}

func TestResolve_MissingIsNotFound(t *testing.T) {
	t.Parallel()

	q := &fakeQ{rows: [][]any{{int64(1), "production"}}}
	_, err := NewPG().Bind(q).Resolve(context.Background(), 7, []string{"production", "nope"})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestResolve_EmptyNamesSkipsQuery(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	envs, err := NewPG().Bind(q).Resolve(context.Background(), 7, nil)
	if err != nil || envs != nil || len(q.calls) != 0 {
		t.Fatalf("expected no query, got envs=%v err=%v calls=%d", envs, err, len(q.calls))
	}
}
