package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/plis/internal/folding"
)

func countingScanFn(calls *int, ranges []folding.Range, ok bool) func(context.Context, folding.Document) ([]folding.Range, bool) {
	return func(ctx context.Context, doc folding.Document) ([]folding.Range, bool) {
		*calls++
		return ranges, ok
	}
}

func TestResultCache_SecondScanIsCached(t *testing.T) {
	calls := 0
	want := []folding.Range{{Start: 0, End: 2}}
	rc := NewResultCache(countingScanFn(&calls, want, true), time.Minute, false)

	doc := folding.Document{Text: "a\nb\nc", LanguageID: "go"}

	got, ok := rc.Get(context.Background(), doc)
	require.True(t, ok)
	require.Equal(t, want, got)
	require.Equal(t, 1, calls)

	got, ok = rc.Get(context.Background(), doc)
	require.True(t, ok)
	require.Equal(t, want, got)
	assert.Equal(t, 1, calls, "second scan of unchanged text must hit the cache")
}

func TestResultCache_DifferentContentMisses(t *testing.T) {
	calls := 0
	rc := NewResultCache(countingScanFn(&calls, nil, false), time.Minute, false)

	_, _ = rc.Get(context.Background(), folding.Document{Text: "a"})
	_, _ = rc.Get(context.Background(), folding.Document{Text: "b"})
	assert.Equal(t, 2, calls)
}

func TestResultCache_LanguageIsPartOfTheKey(t *testing.T) {
	calls := 0
	rc := NewResultCache(countingScanFn(&calls, nil, false), time.Minute, false)

	_, _ = rc.Get(context.Background(), folding.Document{Text: "x", LanguageID: "go"})
	_, _ = rc.Get(context.Background(), folding.Document{Text: "x", LanguageID: "python"})
	assert.Equal(t, 2, calls)
}

func TestResultCache_NoOpinionIsCachedToo(t *testing.T) {
	calls := 0
	rc := NewResultCache(countingScanFn(&calls, nil, false), time.Minute, false)

	doc := folding.Document{Text: "plain"}
	_, ok := rc.Get(context.Background(), doc)
	require.False(t, ok)
	_, ok = rc.Get(context.Background(), doc)
	require.False(t, ok)
	assert.Equal(t, 1, calls)
}

func TestResultCache_SkipBypassesCache(t *testing.T) {
	calls := 0
	rc := NewResultCache(countingScanFn(&calls, nil, true), time.Minute, true)

	doc := folding.Document{Text: "x"}
	_, _ = rc.Get(context.Background(), doc)
	_, _ = rc.Get(context.Background(), doc)
	assert.Equal(t, 2, calls)
}

func TestResultCache_Invalidate(t *testing.T) {
	calls := 0
	rc := NewResultCache(countingScanFn(&calls, nil, true), time.Minute, false)

	doc := folding.Document{Text: "x"}
	_, _ = rc.Get(context.Background(), doc)
	rc.Invalidate(context.Background(), doc)
	_, _ = rc.Get(context.Background(), doc)
	assert.Equal(t, 2, calls)
}

func TestKeyFor_Deterministic(t *testing.T) {
	a := KeyFor(folding.Document{Text: "x", LanguageID: "go"})
	b := KeyFor(folding.Document{Text: "x", LanguageID: "go"})
	c := KeyFor(folding.Document{Text: "x", LanguageID: "rust"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
