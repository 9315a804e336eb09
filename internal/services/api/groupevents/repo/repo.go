// Package repo provides storage access for group events: issue metadata and
// node payloads in postgres, event rows in clickhouse
package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"eventscope/internal/modkit/repokit"
	perr "eventscope/internal/platform/errors"
	"eventscope/internal/services/api/groupevents/domain"

	"github.com/jackc/pgx/v5"
)

// Repo is the postgres metadata surface for group events
type Repo interface {
	domain.IssueRepo
	domain.EnvironmentRepo
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// ByRef loads an issue by numeric id or short id; orgID 0 skips the org check
func (r *queries) ByRef(ctx context.Context, orgID int64, ref string) (domain.Issue, error) {
	const sql = `
select g.id, g.short_id, g.project_id, p.slug, p.org_id, g.category, g.first_seen, g.last_seen
from groups g
join projects p on p.id = g.project_id
where ($1::bigint = 0 or p.org_id = $1)
and (g.id = $2 or ($3 <> '' and upper(g.short_id) = upper($3)))
limit 1
`
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Issue{}, perr.NotFoundf("Issue not found")
	}
	var id int64
	short := ref
	if n, err := strconv.ParseInt(ref, 10, 64); err == nil {
		id, short = n, ""
	}

	var (
		iss      domain.Issue
		category string
		first    time.Time
		last     time.Time
	)
	err := r.q.QueryRow(ctx, sql, orgID, id, short).Scan(
		&iss.ID, &iss.ShortID, &iss.ProjectID, &iss.ProjectSlug, &iss.OrgID, &category, &first, &last,
	)
	if err != nil {
		if noRows(err) {
			return domain.Issue{}, perr.NotFoundf("Issue %s not found", ref)
		}
		return domain.Issue{}, perr.FromPostgres(err, "load issue")
	}
	iss.Category = domain.ParseCategory(category)
	iss.FirstSeen, iss.LastSeen = first.UTC(), last.UTC()
	return iss, nil
}

// Resolve returns the environments in names order; any unknown name is not found
func (r *queries) Resolve(ctx context.Context, orgID int64, names []string) ([]domain.Environment, error) {
	const sql = `
select id, name
from environments
where org_id = $1
and name = any($2)
`
	if len(names) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, sql, orgID, names)
	if err != nil {
		return nil, perr.FromPostgres(err, "resolve environments")
	}
	defer rows.Close()

	byName := make(map[string]domain.Environment, len(names))
	for rows.Next() {
		var e domain.Environment
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		byName[e.Name] = e
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Environment, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		e, ok := byName[n]
		if !ok {
			return nil, perr.WithField(perr.NotFoundf("Environment %s not found", n), "environment")
		}
		out = append(out, e)
	}
	return out, nil
}

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, stdsql.ErrNoRows)
}
