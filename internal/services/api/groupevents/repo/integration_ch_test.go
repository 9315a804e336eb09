//go:build integration_ch
// +build integration_ch

package repo

import (
	"context"
	"sort"
	"testing"
	"time"

	"eventscope/internal/core/search"
	"eventscope/internal/platform/store"
	"eventscope/internal/platform/store/migrations"
	"eventscope/internal/platform/testkit"
	"eventscope/internal/services/api/groupevents/domain"
	"eventscope/internal/services/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chDatabase = testkit.Database

func seedEvents(t *testing.T, ctx context.Context, st *store.Store, evs []seed.Event) {
	t.Helper()
	rows := make([][]any, 0, len(evs))
	for _, e := range evs {
		rows = append(rows, e.Row())
	}
	table := Table(chDatabase, domain.DatasetEvents) + " (" + seed.EventColumns + ")"
	require.NoError(t, st.CH.Insert(ctx, table, rows))
}

func TestIntegrationCH_SearchLookupAdjacent(t *testing.T) {
	dsn := testkit.ClickHouse(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, store.Config{CH: store.CHConfig{
		Enabled: true, URL: dsn, Database: chDatabase, ClientName: "test",
	}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	require.NoError(t, migrations.Clickhouse(ctx, st.CH, chDatabase))

	now := time.Now().UTC()
	gen := seed.NewGenerator(42)
	mine := gen.Events(7, 1337, []string{"production", "staging"}, 24, now.Add(-6*time.Hour), now.Add(-time.Minute))
	noise := gen.Events(7, 1338, []string{"production"}, 10, now.Add(-6*time.Hour), now.Add(-time.Minute))
	seedEvents(t, ctx, st, append(append([]seed.Event(nil), mine...), noise...))

	events := NewEvents(st.CH, EventsOptions{Database: chDatabase})
	win := domain.Window{Start: now.Add(-24 * time.Hour), End: now}

	filter := func(envs []string, ord domain.Ordering, raw string) domain.Filter {
		p, err := search.Parse(raw)
		require.NoError(t, err)
		return domain.NewFilter(domain.FilterSpec{
			Predicate:    p,
			ProjectIDs:   []int64{7},
			OrgID:        1,
			GroupID:      1337,
			Window:       win,
			Environments: envs,
			Ordering:     ord,
			Dataset:      domain.DatasetEvents,
		})
	}

	var prod []seed.Event
	for _, e := range mine {
		if e.Environment == "production" {
			prod = append(prod, e)
		}
	}
	require.NotEmpty(t, prod)
	sort.Slice(prod, func(i, j int) bool {
		if !prod[i].Timestamp.Equal(prod[j].Timestamp) {
			return prod[i].Timestamp.After(prod[j].Timestamp)
		}
		return prod[i].EventID > prod[j].EventID
	})

	t.Run("default order and environment scope", func(t *testing.T) {
		got, err := events.Search(ctx, domain.SearchQuery{
			Filter: filter([]string{"production"}, domain.OrderDefault, ""), Limit: 100,
		}, "test")
		require.NoError(t, err)
		require.Len(t, got, len(prod))
		for i, e := range got {
			assert.Equal(t, int64(1337), e.GroupID)
			assert.Equal(t, prod[i].EventID, e.EventID, "row %d", i)
		}
	})

	t.Run("offset pages", func(t *testing.T) {
		f := filter(nil, domain.OrderDefault, "")
		first, err := events.Search(ctx, domain.SearchQuery{Filter: f, Offset: 0, Limit: 10}, "test")
		require.NoError(t, err)
		second, err := events.Search(ctx, domain.SearchQuery{Filter: f, Offset: 10, Limit: 10}, "test")
		require.NoError(t, err)
		require.Len(t, first, 10)
		require.Len(t, second, 10)
		assert.True(t, !first[9].Timestamp.Before(second[0].Timestamp))
	})

	t.Run("sample order is stable", func(t *testing.T) {
		f := filter(nil, domain.OrderSample, "")
		a, err := events.Search(ctx, domain.SearchQuery{Filter: f, Limit: 100}, "test")
		require.NoError(t, err)
		b, err := events.Search(ctx, domain.SearchQuery{Filter: f, Limit: 100}, "test")
		require.NoError(t, err)
		require.Len(t, a, len(mine))
		assert.Equal(t, a, b)
	})

	t.Run("query narrows rows", func(t *testing.T) {
		e := mine[0]
		got, err := events.Search(ctx, domain.SearchQuery{
			Filter: filter(nil, domain.OrderDefault, "id:"+e.EventID), Limit: 100,
		}, "test")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, e.EventID, got[0].EventID)
	})

	t.Run("lookup and neighbours", func(t *testing.T) {
		target := prod[1]
		got, err := events.Lookup(ctx, domain.Lookup{
			EventID: target.EventID, ProjectID: 7, Window: win, Dataset: domain.DatasetEvents,
		}, "test")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(1337), got.GroupID)

		prev, next, err := events.Adjacent(ctx, *got, filter([]string{"production"}, domain.OrderDefault, ""))
		require.NoError(t, err)
		require.NotNil(t, prev)
		require.NotNil(t, next)
		assert.ElementsMatch(t, []string{prod[0].EventID, prod[2].EventID}, []string{prev.EventID, next.EventID})

		missing, err := events.Lookup(ctx, domain.Lookup{
			EventID: "00000000000000000000000000000000", ProjectID: 7, Window: win, Dataset: domain.DatasetEvents,
		}, "test")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}
