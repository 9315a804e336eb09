// Package paginator drives offset pagination over a page fetch callback
package paginator

import (
	"context"
	"net/url"
	"strings"

	perr "eventscope/internal/platform/errors"

	"golang.org/x/sync/errgroup"
)

// defaults shared by list endpoints
const (
	DefaultLimit = 100
	MaxLimit     = 100
	MaxOffset    = 10000
)

// Fetcher returns up to limit rows starting at offset
type Fetcher[T any] interface {
	FetchPage(ctx context.Context, offset, limit int) ([]T, error)
}

// FetchFunc adapts a function to Fetcher
type FetchFunc[T any] func(ctx context.Context, offset, limit int) ([]T, error)

// FetchPage calls f
func (f FetchFunc[T]) FetchPage(ctx context.Context, offset, limit int) ([]T, error) {
	return f(ctx, offset, limit)
}

// Result is one page plus the cursors around it
type Result[T any] struct {
	Items []T
	Prev  Cursor
	Next  Cursor
}

// Offset pages through a Fetcher
type Offset[T any] struct {
	Fetcher  Fetcher[T]
	MaxLimit int
}

// Page fetches the page at cur, probing one extra row to learn whether more follow
func (p Offset[T]) Page(ctx context.Context, cur Cursor, limit int) (Result[T], error) {
	limit = clampLimit(limit, p.MaxLimit)
	offset := cur.Offset
	if offset > MaxOffset {
		return Result[T]{}, perr.InvalidParamsf("Pagination offset too large")
	}

	rows, err := p.Fetcher.FetchPage(ctx, offset, limit+1)
	if err != nil {
		return Result[T]{}, err
	}
	more := len(rows) > limit
	if more {
		rows = rows[:limit]
	}

	prevOff := offset - limit
	if prevOff < 0 {
		prevOff = 0
	}
	return Result[T]{
		Items: rows,
		Prev:  Cursor{Offset: prevOff, IsPrev: true, Results: offset > 0},
		Next:  Cursor{Offset: offset + limit, Results: more},
	}, nil
}

// Collect walks pages of size limit from offset 0 until a short page or maxPages,
// fetching up to prefetch pages concurrently; output keeps strict offset order
func Collect[T any](ctx context.Context, f Fetcher[T], limit, maxPages, prefetch int) ([]T, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if prefetch <= 0 {
		prefetch = 1
	}
	var out []T
	for page := 0; maxPages <= 0 || page < maxPages; {
		n := prefetch
		if maxPages > 0 && page+n > maxPages {
			n = maxPages - page
		}

		batch := make([][]T, n)
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < n; i++ {
			off := (page + i) * limit
			g.Go(func() error {
				rows, err := f.FetchPage(gctx, off, limit)
				if err != nil {
					return err
				}
				batch[i] = rows
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, rows := range batch {
			if len(rows) > limit {
				rows = rows[:limit]
			}
			out = append(out, rows...)
			if len(rows) < limit {
				return out, nil
			}
		}
		page += n
	}
	return out, nil
}

// Link renders the prev and next relations for a Link header
// base is the request url; its cursor parameter is replaced
func Link(base *url.URL, prev, next Cursor) string {
	return strings.Join([]string{linkPart(base, prev, "previous"), linkPart(base, next, "next")}, ", ")
}

func linkPart(base *url.URL, c Cursor, rel string) string {
	u := *base
	q := u.Query()
	q.Set("cursor", c.String())
	u.RawQuery = q.Encode()
	results := "false"
	if c.Results {
		results = "true"
	}
	return `<` + u.String() + `>; rel="` + rel + `"; results="` + results + `"; cursor="` + c.String() + `"`
}

func clampLimit(limit, maxLimit int) int {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit
}
