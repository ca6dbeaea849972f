package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"clausetree/internal/clause"
	"clausetree/internal/ir"
	"clausetree/internal/parse"
	"clausetree/internal/parse/parsetest"
	"clausetree/internal/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBatch(t *testing.T, sentences ...*parse.Sentence) *ir.BatchResult {
	t.Helper()
	b := &ir.BatchResult{TotalSentences: len(sentences) + 1}
	for i, s := range sentences {
		a, _, err := roles.NewDefaultChain().Analyze(clause.Build(s))
		require.NoError(t, err)
		b.Results = append(b.Results, ir.FromAnalysis(a, i+1))
	}
	return b
}

func newSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SaveRun_RoundTrip(t *testing.T) {
	store := newSQLite(t)
	ctx := context.Background()

	b := testBatch(t, parsetest.Book(), parsetest.Imperative())
	run := &Run{Source: "inline", Model: "fixture"}
	require.NoError(t, store.SaveRun(ctx, run, b))

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
	assert.Equal(t, 3, run.TotalSentences)
	assert.Equal(t, 2, run.Analyzed)

	loadedRun, loaded, err := store.LoadRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, loadedRun.ID)
	assert.Equal(t, "fixture", loadedRun.Model)
	assert.Equal(t, b.TotalSentences, loaded.TotalSentences)
	require.Len(t, loaded.Results, 2)
	assert.Equal(t, b.Results[0], loaded.Results[0])
	assert.Equal(t, b.Results[1], loaded.Results[1])
}

func TestSQLiteStore_SaveRun_ReplacesRows(t *testing.T) {
	store := newSQLite(t)
	ctx := context.Background()

	run := &Run{ID: "fixed", Source: "a.txt"}
	require.NoError(t, store.SaveRun(ctx, run, testBatch(t, parsetest.Book(), parsetest.Apples())))
	require.NoError(t, store.SaveRun(ctx, run, testBatch(t, parsetest.Imperative())))

	_, loaded, err := store.LoadRun(ctx, "fixed")
	require.NoError(t, err)
	require.Len(t, loaded.Results, 1)
	assert.Equal(t, "Go!", loaded.Results[0].Sentence)

	hits, err := store.FindClauses(ctx, "relative", 0)
	require.NoError(t, err)
	assert.Empty(t, hits, "clauses of the first save are gone")

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteStore_FindClauses(t *testing.T) {
	store := newSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, &Run{}, testBatch(t, parsetest.Book(), parsetest.Barked())))

	t.Run("By type", func(t *testing.T) {
		hits, err := store.FindClauses(ctx, "relative", 10)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		for _, h := range hits {
			assert.Equal(t, "relative", h.Type)
			require.NotNil(t, h.Connector)
			assert.Equal(t, "that", *h.Connector)
		}
	})

	t.Run("Any type", func(t *testing.T) {
		hits, err := store.FindClauses(ctx, "", 100)
		require.NoError(t, err)
		assert.Greater(t, len(hits), 2)
	})

	t.Run("Limit", func(t *testing.T) {
		hits, err := store.FindClauses(ctx, "", 1)
		require.NoError(t, err)
		assert.Len(t, hits, 1)
	})

	t.Run("Null columns survive", func(t *testing.T) {
		hits, err := store.FindClauses(ctx, "main", 100)
		require.NoError(t, err)
		var sawNilVerb bool
		for _, h := range hits {
			if h.MainVerb == nil {
				sawNilVerb = true
			}
			assert.Nil(t, h.Connector)
		}
		assert.True(t, sawNilVerb, "the main fragment before a relative clause has no verb")
	})
}

func TestSQLiteStore_LoadRun_NotFound(t *testing.T) {
	store := newSQLite(t)
	_, _, err := store.LoadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListRuns_Order(t *testing.T) {
	store := newSQLite(t)
	ctx := context.Background()

	first := &Run{ID: "first"}
	require.NoError(t, store.SaveRun(ctx, first, testBatch(t, parsetest.Imperative())))
	second := &Run{ID: "second", CreatedAt: first.CreatedAt.Add(1e9)}
	require.NoError(t, store.SaveRun(ctx, second, testBatch(t, parsetest.Imperative())))

	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "second", runs[0].ID)
	assert.Equal(t, "first", runs[1].ID)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("SQLite", func(t *testing.T) {
		store, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "open.db"))
		require.NoError(t, err)
		assert.NoError(t, store.Close())
	})

	t.Run("Unknown driver", func(t *testing.T) {
		_, err := Open(ctx, "mongo", "")
		assert.Error(t, err)
	})

	t.Run("Postgres", func(t *testing.T) {
		dsn := os.Getenv("CLAUSETREE_TEST_PG_DSN")
		if dsn == "" {
			t.Skip("CLAUSETREE_TEST_PG_DSN not set")
		}
		store, err := Open(ctx, "postgres", dsn)
		require.NoError(t, err)
		defer store.Close()

		run := &Run{Source: "pg-test"}
		b := testBatch(t, parsetest.Book())
		require.NoError(t, store.SaveRun(ctx, run, b))

		_, loaded, err := store.LoadRun(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Results, 1)
		assert.Equal(t, b.Results[0], loaded.Results[0])

		hits, err := store.FindClauses(ctx, "relative", 1000)
		require.NoError(t, err)
		assert.NotEmpty(t, hits)
	})
}
