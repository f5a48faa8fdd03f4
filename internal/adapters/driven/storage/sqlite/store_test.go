package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/leadscreen-cli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "history.db"), store.Path())
}

func TestStore_SaveAndGetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &domain.Run{
		ID:             "run-1",
		Mode:           domain.ModeExternal,
		LeadFile:       "leads.csv",
		DeliveryFile:   "delivery.csv",
		CPCLimit:       3,
		StartedAt:      time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Duration:       1500 * time.Millisecond,
		TotalLeads:     100,
		Passed:         92,
		ViolationCount: 8,
	}
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeExternal, got.Mode)
	assert.Equal(t, "leads.csv", got.LeadFile)
	assert.Equal(t, 3, got.CPCLimit)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.Equal(t, 92, got.Passed)
	assert.True(t, got.StartedAt.Equal(run.StartedAt))
}

func TestStore_SaveRun_Upsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run := &domain.Run{ID: "run-1", Mode: domain.ModeInternal, Passed: 5}
	require.NoError(t, store.SaveRun(ctx, run))

	run.Passed = 7
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Passed)

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestStore_SaveRun_RequiresID(t *testing.T) {
	store := newTestStore(t)
	err := store.SaveRun(context.Background(), &domain.Run{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStore_GetRun_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListRuns_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.SaveRun(ctx, &domain.Run{
			ID:        id,
			Mode:      domain.ModeInternal,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[2].ID)

	limited, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "new", limited[0].ID)
	assert.Equal(t, "mid", limited[1].ID)
}

func TestStore_Violations(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRun(ctx, &domain.Run{ID: "run-1", Mode: domain.ModeExternal}))

	violations := []domain.Violation{
		{ID: "v2", Row: 9, Rule: domain.RuleDuplicate, Reason: domain.ReasonDuplicate, Message: "Same Prospect Same Campaign - Email match in delivery"},
		{ID: "v1", Row: 4, Rule: domain.RuleCPC, Reason: domain.ReasonExtraCPC, Limit: 3, Observed: 4, Message: "CPC Exceeded: Root Domain 'acme' (4/3)"},
	}
	require.NoError(t, store.SaveViolations(ctx, "run-1", violations))

	got, err := store.ListViolations(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 4, got[0].Row)
	assert.Equal(t, domain.RuleCPC, got[0].Rule)
	assert.Equal(t, 3, got[0].Limit)
	assert.Equal(t, 4, got[0].Observed)
	assert.Equal(t, 9, got[1].Row)

	empty, err := store.ListViolations(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveRun(context.Background(), &domain.Run{ID: "run-1"}))
	require.NoError(t, store.Close())

	// Reopening runs migrate again; applied versions are skipped and
	// existing data survives.
	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
}
