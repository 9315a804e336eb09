package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eventscope/internal/modkit/repokit"
	perr "eventscope/internal/platform/errors"
	"eventscope/internal/platform/logger"
	"eventscope/internal/platform/store"
)

// EventColumns is the events table insert column list, in Row order
const EventColumns = "event_id, project_id, group_id, timestamp, deleted, type, environment, release, platform, level, " +
	"message, title, url, user_id, user_email, user_username, user_ip, http_method, http_status_code, " +
	"error_type, error_value, error_mechanism, error_handled, tags.key, tags.value"

// Row flattens e in EventColumns order
func (e Event) Row() []any {
	keys := make([]string, 0, len(e.Tags))
	vals := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		keys = append(keys, t[0])
		vals = append(vals, t[1])
	}
	handled := uint8(0)
	if e.Handled {
		handled = 1
	}
	return []any{
		e.EventID, uint64(e.ProjectID), uint64(e.GroupID), e.Timestamp, uint8(0), "error", e.Environment, e.Release, "python", e.Level,
		e.Message, e.Title, e.URL, e.UserID, e.UserEmail, e.Username, e.UserIP, e.HTTPMethod, e.StatusCode,
		[]string{e.ErrorType}, []string{e.ErrorValue}, []string{"generic"}, handled, keys, vals,
	}
}

// Options describe one seed run
type Options struct {
	OrgID        int64
	ProjectSlug  string
	Issues       int
	EventsPer    int
	Environments []string
	Window       time.Duration
	Database     string // clickhouse database, empty for the connection default
	Now          time.Time
}

// Summary reports what a run wrote
type Summary struct {
	ProjectID int64
	Issues    []string // short ids
	Events    int
}

// Seeder writes generated fixtures to postgres and clickhouse
type Seeder struct {
	pg  repokit.TxRunner
	ch  store.Clickhouse
	gen *Generator
}

// New builds a seeder
func New(pg repokit.TxRunner, ch store.Clickhouse, gen *Generator) *Seeder {
	if pg == nil || ch == nil || gen == nil {
		panic("seed.New requires postgres, clickhouse and a generator")
	}
	return &Seeder{pg: pg, ch: ch, gen: gen}
}

// Run writes one project with opt.Issues issues; postgres rows commit before events are inserted
func (s *Seeder) Run(ctx context.Context, opt Options) (Summary, error) {
	log := logger.C(ctx)
	if opt.Now.IsZero() {
		opt.Now = time.Now().UTC()
	}
	if opt.Window <= 0 {
		opt.Window = 7 * 24 * time.Hour
	}

	var (
		sum    Summary
		events []Event
	)
	err := s.pg.Tx(ctx, func(q repokit.Queryer) error {
		pid, err := upsertProject(ctx, q, opt.OrgID, opt.ProjectSlug)
		if err != nil {
			return err
		}
		sum.ProjectID = pid

		for _, env := range opt.Environments {
			if _, err := q.Exec(ctx, `
insert into environments (org_id, name) values ($1, $2)
on conflict (org_id, name) do nothing`, opt.OrgID, env); err != nil {
				return perr.FromPostgres(err, "seed environment")
			}
		}

		for i := 0; i < opt.Issues; i++ {
			short := s.gen.ShortID(opt.ProjectSlug, i)
			var gid int64
			err := q.QueryRow(ctx, `
insert into groups (project_id, short_id, category, first_seen, last_seen)
values ($1, $2, 'error', $3, $4)
returning id`, pid, short, opt.Now.Add(-opt.Window), opt.Now).Scan(&gid)
			if err != nil {
				return perr.FromPostgres(err, "seed group")
			}
			sum.Issues = append(sum.Issues, short)

			batch := s.gen.Events(pid, gid, opt.Environments, opt.EventsPer, opt.Now.Add(-opt.Window), opt.Now)
			for _, e := range batch {
				if err := writeNode(ctx, q, e); err != nil {
					return err
				}
			}
			events = append(events, batch...)
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, e.Row())
	}
	table := "events"
	if opt.Database != "" {
		table = opt.Database + ".events"
	}
	if err := s.ch.Insert(ctx, fmt.Sprintf("%s (%s)", table, EventColumns), rows); err != nil {
		return Summary{}, perr.Wrapf(err, perr.ErrorCodeDB, "seed events")
	}
	sum.Events = len(rows)

	log.Info().Int64("project_id", sum.ProjectID).Strs("issues", sum.Issues).Int("events", sum.Events).Msg("seed written")
	return sum, nil
}

func upsertProject(ctx context.Context, q repokit.Queryer, orgID int64, slug string) (int64, error) {
	var id int64
	err := q.QueryRow(ctx, `
insert into projects (org_id, slug) values ($1, $2)
on conflict (org_id, slug) do update set slug = excluded.slug
returning id`, orgID, slug).Scan(&id)
	if err != nil {
		return 0, perr.FromPostgres(err, "seed project")
	}
	return id, nil
}

func writeNode(ctx context.Context, q repokit.Queryer, e Event) error {
	b, err := json.Marshal(e.Node)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "encode node %s", e.EventID)
	}
	if _, err := q.Exec(ctx, `
insert into nodestore_node (id, data, timestamp) values ($1, $2, $3)
on conflict (id) do update set data = excluded.data`, e.NodeID(), b, e.Timestamp); err != nil {
		return perr.FromPostgres(err, "seed node")
	}
	return nil
}
