package taskstore

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskgate/taskgate/internal/domain"
)

func TestFeedback_roundTrip(t *testing.T) {
	store := newTestStore(t)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	fb := &domain.Feedback{
		ID:             "01jx5",
		TaskID:         "auth",
		Original:       "fix bug in the session cache",
		Interpretation: "the cache returns stale entries after eviction",
		Decision:       domain.DecisionAdopted,
		Status:         domain.FeedbackDraft,
		Timestamp:      now,
	}
	require.NoError(t, store.PutFeedback(fb))

	got, err := store.GetFeedback("auth", "01jx5")
	require.NoError(t, err)
	assert.Equal(t, fb.Original, got.Original)
	assert.Equal(t, fb.Interpretation, got.Interpretation)
	assert.Equal(t, domain.DecisionAdopted, got.Decision)
	assert.Equal(t, domain.FeedbackDraft, got.Status)
	assert.True(t, got.Timestamp.Equal(now))
}

func TestFeedback_defaultsForMissingKeys(t *testing.T) {
	store := newTestStore(t)
	dir := domain.FeedbackDirPath(store.tasksDir, "auth")
	require.NoError(t, os.MkdirAll(dir, 0o750))

	// Hand-written record with only a timestamp: decision defaults to
	// rejected, status to draft.
	record := "---\ntimestamp: 2026-08-29T12:00:00Z\n---\n\nplease add tests\n"
	require.NoError(t, os.WriteFile(domain.FeedbackRecordPath(store.tasksDir, "auth", "fb1"), []byte(record), 0o644))

	got, err := store.GetFeedback("auth", "fb1")
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionRejected, got.Decision)
	assert.Equal(t, domain.FeedbackDraft, got.Status)
	assert.Equal(t, "please add tests", got.Original)
}

func TestFeedback_getNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetFeedback("auth", "ghost")
	require.ErrorIs(t, err, domain.ErrFeedbackNotFound)
}

func TestFeedback_listOrderedAndSkipsMalformed(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()
	require.NoError(t, store.PutFeedback(&domain.Feedback{ID: "02", TaskID: "auth", Original: "second", Status: domain.FeedbackDraft, Decision: domain.DecisionRejected, Timestamp: now}))
	require.NoError(t, store.PutFeedback(&domain.Feedback{ID: "01", TaskID: "auth", Original: "first", Status: domain.FeedbackDraft, Decision: domain.DecisionRejected, Timestamp: now}))
	require.NoError(t, os.WriteFile(domain.FeedbackRecordPath(store.tasksDir, "auth", "03"), []byte("garbage"), 0o644))

	items, err := store.ListFeedback("auth")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "01", items[0].ID)
	assert.Equal(t, "02", items[1].ID)
}

func TestFeedback_listEmptyWithoutDir(t *testing.T) {
	store := newTestStore(t)
	items, err := store.ListFeedback("auth")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFeedback_deleteAll(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()
	require.NoError(t, store.PutFeedback(&domain.Feedback{ID: "01", TaskID: "auth", Original: "a", Status: domain.FeedbackDraft, Decision: domain.DecisionRejected, Timestamp: now}))
	require.NoError(t, store.PutFeedback(&domain.Feedback{ID: "02", TaskID: "auth", Original: "b", Status: domain.FeedbackDraft, Decision: domain.DecisionRejected, Timestamp: now}))

	require.NoError(t, store.DeleteAllFeedback("auth"))

	items, err := store.ListFeedback("auth")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFeedback_taskIDMismatchIsMalformed(t *testing.T) {
	store := newTestStore(t)
	dir := domain.FeedbackDirPath(store.tasksDir, "auth")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	record := "---\ntask_id: other\ntimestamp: 2026-08-29T12:00:00Z\n---\n\ntext\n"
	require.NoError(t, os.WriteFile(domain.FeedbackRecordPath(store.tasksDir, "auth", "fb1"), []byte(record), 0o644))

	_, err := store.GetFeedback("auth", "fb1")
	require.ErrorIs(t, err, domain.ErrMalformedRecord)
}
