// Package storagetest holds the behavioural contract every storage
// backend must satisfy. Backend test files call Run with a constructor.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/storage"
)

// Factory returns an initialized, empty provider. Cleanup is the caller's job
// via t.Cleanup.
type Factory func(t *testing.T) storage.Provider

// Run executes the shared contract against the backend built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("UnknownRecordIsNotFound", func(t *testing.T) { testUnknownRecord(t, newStore(t)) })
	t.Run("RecordRoundTrip", func(t *testing.T) { testRecordRoundTrip(t, newStore(t)) })
	t.Run("VersionConflict", func(t *testing.T) { testVersionConflict(t, newStore(t)) })
	t.Run("ConcurrentInsertOnlyOneWins", func(t *testing.T) { testConcurrentCreate(t, newStore(t)) })
	t.Run("EventRangeQueries", func(t *testing.T) { testEventRanges(t, newStore(t)) })
	t.Run("RecentEventsNewestFirst", func(t *testing.T) { testRecentEvents(t, newStore(t)) })
	t.Run("EventsAreIsolatedPerUser", func(t *testing.T) { testUserIsolation(t, newStore(t)) })
}

// Event builds a reflection event for tests.
func Event(userID string, at time.Time, words int, mood *int) models.ReflectionEvent {
	return models.ReflectionEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		OccurredAt: at,
		WordCount:  words,
		MoodScore:  mood,
	}
}

// Mood returns a pointer to v.
func Mood(v int) *int {
	return &v
}

func testUnknownRecord(t *testing.T, s storage.Provider) {
	_, err := s.GetConsistencyRecord(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func testRecordRoundTrip(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	last := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	rec := models.NewConsistencyRecord("u1")
	rec.CurrentStreak = 7
	rec.LongestStreak = 9
	rec.LastActiveDate = &last
	rec.UnlockedMilestones = map[string]bool{"3d": true, "7d": true}

	version, err := s.UpsertConsistencyRecord(ctx, rec, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	got, err := s.GetConsistencyRecord(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, got.CurrentStreak)
	assert.Equal(t, 9, got.LongestStreak)
	require.NotNil(t, got.LastActiveDate)
	assert.True(t, last.Equal(*got.LastActiveDate), "last active %v", got.LastActiveDate)
	assert.Equal(t, map[string]bool{"3d": true, "7d": true}, got.UnlockedMilestones)
	assert.Equal(t, int64(1), got.Version)
	assert.False(t, got.CreatedAt.IsZero())

	got.CurrentStreak = 0
	version, err = s.UpsertConsistencyRecord(ctx, got, got.Version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	again, err := s.GetConsistencyRecord(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.CurrentStreak)
	assert.Equal(t, 9, again.LongestStreak)
	assert.Len(t, again.UnlockedMilestones, 2)
}

func testVersionConflict(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	rec := models.NewConsistencyRecord("u1")
	rec.CurrentStreak, rec.LongestStreak = 1, 1

	_, err := s.UpsertConsistencyRecord(ctx, rec, 0)
	require.NoError(t, err)

	_, err = s.UpsertConsistencyRecord(ctx, rec, 0)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "second create must conflict")

	_, err = s.UpsertConsistencyRecord(ctx, rec, 5)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "stale version must conflict")

	_, err = s.UpsertConsistencyRecord(ctx, models.NewConsistencyRecord("ghost"), 3)
	assert.ErrorIs(t, err, apperrors.ErrConflict, "update of a missing record must conflict")
}

func testConcurrentCreate(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	const writers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := models.NewConsistencyRecord("racer")
			rec.CurrentStreak, rec.LongestStreak = i, i
			if _, err := s.UpsertConsistencyRecord(ctx, rec, 0); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}

func testEventRanges(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		var mood *int
		if i%2 == 0 {
			mood = Mood(40 + i*10)
		}
		require.NoError(t, s.InsertEvent(ctx, Event("u1", base.AddDate(0, 0, i), 100+i, mood)))
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 4)
	events, err := s.QueryEvents(ctx, "u1", from, to)
	require.NoError(t, err)
	require.Len(t, events, 3, "range is half-open")

	for i, e := range events {
		assert.True(t, e.OccurredAt.Equal(base.AddDate(0, 0, i+1)), "event %d at %v", i, e.OccurredAt)
		assert.Equal(t, 101+i, e.WordCount)
	}
	assert.Nil(t, events[0].MoodScore)
	require.NotNil(t, events[1].MoodScore)
	assert.Equal(t, 60, *events[1].MoodScore)

	n, err := s.CountEvents(ctx, "u1", base, base.AddDate(0, 0, 5))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = s.CountEvents(ctx, "u1", base.AddDate(0, 0, 10), base.AddDate(0, 0, 20))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testRecentEvents(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		e := Event("u1", base.Add(time.Duration(i)*time.Hour), i, nil)
		e.StreakDay = i + 1
		e.Text = fmt.Sprintf("entry %d", i)
		require.NoError(t, s.InsertEvent(ctx, e))
	}

	recent, err := s.RecentEvents(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 4, recent[0].StreakDay)
	assert.Equal(t, 3, recent[1].StreakDay)
	assert.Equal(t, "entry 3", recent[0].Text)
}

func testUserIsolation(t *testing.T, s storage.Provider) {
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertEvent(ctx, Event("alice", at, 10, nil)))
	require.NoError(t, s.InsertEvent(ctx, Event("bob", at, 20, nil)))

	events, err := s.QueryEvents(ctx, "alice", at.Add(-time.Hour), at.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "alice", events[0].UserID)
}

// Record returns a fresh zero record for userID.
func Record(userID string) models.ConsistencyRecord {
	return models.NewConsistencyRecord(userID)
}
