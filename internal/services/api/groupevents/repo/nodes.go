package repo

import (
	"context"
	"encoding/json"
	"time"

	"eventscope/internal/modkit/repokit"
	perr "eventscope/internal/platform/errors"
	"eventscope/internal/platform/logger"
	"eventscope/internal/platform/metrics"
	"eventscope/internal/services/api/groupevents/domain"

	"github.com/redis/go-redis/v9"
)

// DefaultNodeTTL is how long node payloads stay in redis
const DefaultNodeTTL = 10 * time.Minute

const nodeKeyPrefix = "es:node:"

// Nodes reads event payloads from postgres through an optional redis cache
type Nodes struct {
	q   repokit.Queryer
	rds redis.UniversalClient
	ttl time.Duration
}

var _ domain.NodeStore = (*Nodes)(nil)

// NewNodes builds the node store; rds may be nil to read postgres only
func NewNodes(q repokit.Queryer, rds redis.UniversalClient, ttl time.Duration) *Nodes {
	if ttl <= 0 {
		ttl = DefaultNodeTTL
	}
	return &Nodes{q: repokit.RequireQueryer(q), rds: rds, ttl: ttl}
}

// GetMany returns the payloads of events keyed by node id; missing nodes are absent
func (n *Nodes) GetMany(ctx context.Context, events []domain.Event) (map[string]map[string]any, error) {
	ids := make([]string, 0, len(events))
	seen := make(map[string]bool, len(events))
	for _, e := range events {
		id := e.NodeID()
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	out := make(map[string]map[string]any, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	missing := n.fromCache(ctx, ids, out)
	if len(missing) == 0 {
		return out, nil
	}

	raw, err := n.fromPG(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, b := range raw {
		var node map[string]any
		if err := json.Unmarshal(b, &node); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "decode node %s", id)
		}
		out[id] = node
	}
	n.fill(ctx, raw)
	return out, nil
}

// fromCache decodes cached payloads into out and returns the ids it did not find
// cache failures are logged and treated as misses
func (n *Nodes) fromCache(ctx context.Context, ids []string, out map[string]map[string]any) []string {
	if n.rds == nil {
		return ids
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = nodeKeyPrefix + id
	}
	vals, err := n.rds.MGet(ctx, keys...).Result()
	if err != nil {
		logger.C(ctx).Warn().Err(err).Int("keys", len(keys)).Msg("nodestore: cache read failed")
		return ids
	}

	var missing []string
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, ids[i])
			continue
		}
		var node map[string]any
		if err := json.Unmarshal([]byte(s), &node); err != nil {
			missing = append(missing, ids[i])
			continue
		}
		out[ids[i]] = node
	}
	metrics.NodeCache.WithLabelValues("hit").Add(float64(len(ids) - len(missing)))
	metrics.NodeCache.WithLabelValues("miss").Add(float64(len(missing)))
	return missing
}

func (n *Nodes) fromPG(ctx context.Context, ids []string) (map[string][]byte, error) {
	const sql = `
select id, data
from nodestore_node
where id = any($1)
`
	rows, err := n.q.Query(ctx, sql, ids)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "read nodes")
	}
	defer rows.Close()

	out := make(map[string][]byte, len(ids))
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "scan nodes")
		}
		out[id] = data
	}
	if err := rows.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeStorage, "read nodes")
	}
	return out, nil
}

// fill writes freshly read payloads back in one pipeline
func (n *Nodes) fill(ctx context.Context, raw map[string][]byte) {
	if n.rds == nil || len(raw) == 0 {
		return
	}
	_, err := n.rds.Pipelined(ctx, func(p redis.Pipeliner) error {
		for id, b := range raw {
			p.Set(ctx, nodeKeyPrefix+id, b, n.ttl)
		}
		return nil
	})
	if err != nil {
		logger.C(ctx).Warn().Err(err).Int("keys", len(raw)).Msg("nodestore: cache fill failed")
	}
}
