package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/assignwatch/internal/domain/model"
)

func testWatch(url string) model.WatchedItem {
	deadline := time.Date(2026, 8, 20, 9, 30, 0, 123456789, time.UTC)
	return model.WatchedItem{
		URL:       url,
		Deadline:  deadline,
		LastCheck: deadline.Add(-time.Hour),
	}
}

func TestWatchRepo_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatchRepo(db)
	ctx := context.Background()

	item := testWatch("https://github.com/octo/widgets/issues/1")
	require.NoError(t, repo.Upsert(ctx, item))

	got, err := repo.GetByURL(ctx, item.URL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, item.URL, got.URL)
	// Instants round-trip with full nanosecond precision.
	assert.True(t, got.Deadline.Equal(item.Deadline))
	assert.True(t, got.LastCheck.Equal(item.LastCheck))
	assert.Nil(t, got.LastReminder)
}

func TestWatchRepo_GetByURL_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatchRepo(db)

	got, err := repo.GetByURL(context.Background(), "https://github.com/octo/widgets/issues/404")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWatchRepo_LastReminderRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatchRepo(db)
	ctx := context.Background()

	item := testWatch("https://github.com/octo/widgets/issues/2")
	reminded := item.Deadline.Add(61*time.Minute + 999*time.Nanosecond)
	item.LastReminder = &reminded
	require.NoError(t, repo.Upsert(ctx, item))

	got, err := repo.GetByURL(ctx, item.URL)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.LastReminder)
	assert.True(t, got.LastReminder.Equal(reminded))
}

func TestWatchRepo_UpsertReplacesByURL(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatchRepo(db)
	ctx := context.Background()

	item := testWatch("https://github.com/octo/widgets/issues/3")
	require.NoError(t, repo.Upsert(ctx, item))

	// A reminder pass sets LastReminder and advances LastCheck.
	reminded := item.LastCheck.Add(2 * time.Hour)
	item.LastCheck = reminded
	item.LastReminder = &reminded
	require.NoError(t, repo.Upsert(ctx, item))

	items, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1, "upsert must be keyed by URL")
	require.NotNil(t, items[0].LastReminder)
	assert.True(t, items[0].LastCheck.Equal(reminded))

	// A deadline extension clears the reminder for the new cycle.
	item.LastReminder = nil
	item.Deadline = item.Deadline.Add(3 * time.Hour)
	require.NoError(t, repo.Upsert(ctx, item))

	got, err := repo.GetByURL(ctx, item.URL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.LastReminder)
	assert.True(t, got.Deadline.Equal(item.Deadline))
}

func TestWatchRepo_ListAll_OrderedByDeadline(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatchRepo(db)
	ctx := context.Background()

	later := testWatch("https://github.com/octo/widgets/issues/4")
	sooner := testWatch("https://github.com/octo/widgets/issues/5")
	sooner.Deadline = later.Deadline.Add(-24 * time.Hour)

	require.NoError(t, repo.Upsert(ctx, later))
	require.NoError(t, repo.Upsert(ctx, sooner))

	items, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, sooner.URL, items[0].URL)
	assert.Equal(t, later.URL, items[1].URL)
}

func TestWatchRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatchRepo(db)
	ctx := context.Background()

	item := testWatch("https://github.com/octo/widgets/issues/6")
	require.NoError(t, repo.Upsert(ctx, item))
	require.NoError(t, repo.Delete(ctx, item.URL))

	got, err := repo.GetByURL(ctx, item.URL)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWatchRepo_Delete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWatchRepo(db)

	err := repo.Delete(context.Background(), "https://github.com/octo/widgets/issues/404")
	assert.Error(t, err)
}
