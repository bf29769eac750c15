package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepo(t *testing.T) *SQLiteSnapshotRepo {
	t.Helper()
	database := testutil.NewTestDB(t)
	return NewSQLiteSnapshotRepo(database, testutil.NewTestUoW(database))
}

func TestSQLiteSnapshotRepo_LoadEmpty(t *testing.T) {
	repo := newSQLiteRepo(t)

	snap, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSQLiteSnapshotRepo_RoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	want := testutil.NewTestSnapshot()
	want.Sites[0].CreatedAt = time.Date(2024, 2, 3, 4, 5, 6, 789, time.UTC)

	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteSnapshotRepo_SaveEmptyIsNotAbsent(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.NewSnapshot()))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsEmpty())
}

func TestSQLiteSnapshotRepo_SaveReplacesPreviousState(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	first := testutil.NewTestSnapshot()
	require.NoError(t, repo.Save(ctx, first))

	second := domain.NewSnapshot()
	second.Sites = append(second.Sites, testutil.NewTestSite("South Yard"))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Sites, 1)
	assert.Equal(t, "South Yard", got.Sites[0].Name)
	assert.Empty(t, got.Tasks)
	assert.Empty(t, got.Phases)
}

func TestSQLiteSnapshotRepo_PreservesInsertionOrder(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	snap := domain.NewSnapshot()
	site := testutil.NewTestSite("North Yard")
	snap.Sites = append(snap.Sites, site)
	for _, name := range []string{"Zinc roof", "Alpha wall", "Mid slab"} {
		snap.Tasks = append(snap.Tasks, testutil.NewTestTask(site.ID, name))
	}
	require.NoError(t, repo.Save(ctx, snap))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	var names []string
	for _, task := range got.Tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"Zinc roof", "Alpha wall", "Mid slab"}, names)
}

func TestSQLiteSnapshotRepo_FailedSaveKeepsPreviousState(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	good := NewSQLiteSnapshotRepo(database, testutil.NewTestUoW(database))

	original := testutil.NewTestSnapshot()
	require.NoError(t, good.Save(ctx, original))

	boom := errors.New("disk I/O error")
	// Exec #1-4 clear the tables, #5 is the first site insert.
	failing := NewSQLiteSnapshotRepo(database, &testutil.FailOnNthExecUoW{DB: database, FailOn: 5, Err: boom})

	replacement := domain.NewSnapshot()
	replacement.Sites = append(replacement.Sites, testutil.NewTestSite("South Yard"))
	err := failing.Save(ctx, replacement)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	got, err := good.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}
