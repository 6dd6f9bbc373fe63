package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stridehq/stride/internal/profile"
	"github.com/stridehq/stride/store"
	"github.com/stridehq/stride/store/db"
)

// NewTestingStore creates a store backed by an in-memory SQLite database
// with the full schema applied.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    "file::memory:",
	}
	driver, err := db.NewDBDriver(p)
	require.NoError(t, err)

	ts := store.New(driver, p)
	require.NoError(t, ts.Migrate(ctx))
	t.Cleanup(func() {
		require.NoError(t, ts.Close())
	})
	return ts
}
