package index_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/plis/internal/folding"
	"github.com/zjrosen/plis/internal/testutil"
)

func TestStore_ReplaceAndGetScan(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	ranges := []folding.Range{
		{Start: 0, End: 4, Kind: folding.KindRegion},
		{Start: 6, End: 8, Kind: folding.KindComment},
	}
	id := testutil.SeedScan(t, store, "main.go", "go", ranges)
	require.NotEmpty(t, id)

	scan, err := store.GetScan(ctx, "main.go")
	require.NoError(t, err)
	assert.Equal(t, id, scan.ID)
	assert.Equal(t, "main.go", scan.Path)
	assert.Equal(t, "go", scan.Language)
	assert.Equal(t, ranges, scan.Ranges)
	assert.False(t, scan.ScannedAt.IsZero())
}

func TestStore_ReplaceScanDropsOldRanges(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	first := testutil.SeedScan(t, store, "a.py", "python", []folding.Range{
		{Start: 0, End: 9, Kind: folding.KindRegion},
	})
	second := testutil.SeedScan(t, store, "a.py", "python", []folding.Range{
		{Start: 2, End: 3, Kind: folding.KindRegion},
	})
	require.NotEqual(t, first, second)

	scan, err := store.GetScan(ctx, "a.py")
	require.NoError(t, err)
	assert.Equal(t, second, scan.ID)
	assert.Equal(t, []folding.Range{{Start: 2, End: 3, Kind: folding.KindRegion}}, scan.Ranges)
}

func TestStore_GetScanUnknownPath(t *testing.T) {
	store := testutil.NewTestStore(t)

	_, err := store.GetScan(context.Background(), "never-indexed.go")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStore_EmptyRangeSet(t *testing.T) {
	store := testutil.NewTestStore(t)

	testutil.SeedScan(t, store, "flat.txt", "plain", nil)

	scan, err := store.GetScan(context.Background(), "flat.txt")
	require.NoError(t, err)
	assert.Empty(t, scan.Ranges)
}

func TestStore_RangesComeBackOrdered(t *testing.T) {
	store := testutil.NewTestStore(t)

	testutil.SeedScan(t, store, "b.go", "go", []folding.Range{
		{Start: 10, End: 20, Kind: folding.KindRegion},
		{Start: 0, End: 5, Kind: folding.KindComment},
		{Start: 0, End: 2, Kind: folding.KindRegion},
	})

	scan, err := store.GetScan(context.Background(), "b.go")
	require.NoError(t, err)
	assert.Equal(t, []folding.Range{
		{Start: 0, End: 2, Kind: folding.KindRegion},
		{Start: 0, End: 5, Kind: folding.KindComment},
		{Start: 10, End: 20, Kind: folding.KindRegion},
	}, scan.Ranges)
}

func TestStore_ListScans(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	testutil.SeedScan(t, store, "b.go", "go", nil)
	testutil.SeedScan(t, store, "a.py", "python", nil)

	scans, err := store.ListScans(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "a.py", scans[0].Path)
	assert.Equal(t, "b.go", scans[1].Path)
}

func TestStore_DeleteScan(t *testing.T) {
	store := testutil.NewTestStore(t)
	ctx := context.Background()

	testutil.SeedScan(t, store, "gone.go", "go", []folding.Range{{Start: 0, End: 1}})

	require.NoError(t, store.DeleteScan(ctx, "gone.go"))
	_, err := store.GetScan(ctx, "gone.go")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// Deleting again is not an error.
	assert.NoError(t, store.DeleteScan(ctx, "gone.go"))
}
