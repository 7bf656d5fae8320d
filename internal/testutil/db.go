// Package testutil provides test utilities for index database setup.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/plis/internal/folding"
	"github.com/zjrosen/plis/internal/index"
)

// NewTestStore creates an index store backed by a database in a temp
// directory. The store is closed automatically when the test ends.
func NewTestStore(t *testing.T) *index.Store {
	t.Helper()
	store, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// SeedScan stores a scan and returns its ID, failing the test on error.
func SeedScan(t *testing.T, store *index.Store, path, language string, ranges []folding.Range) string {
	t.Helper()
	id, err := store.ReplaceScan(context.Background(), path, language, ranges)
	require.NoError(t, err)
	return id
}
