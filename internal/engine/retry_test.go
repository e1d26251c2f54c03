package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/storage/memory"
)

// racingStore simulates another process writing the record between our read
// and our compare-and-swap for the first `races` upserts.
type racingStore struct {
	*memory.Store
	races   int32
	upserts atomic.Int32
}

func (s *racingStore) UpsertConsistencyRecord(ctx context.Context, rec models.ConsistencyRecord, expected int64) (int64, error) {
	if s.upserts.Add(1) <= s.races {
		cur, err := s.Store.GetConsistencyRecord(ctx, rec.UserID)
		if err != nil {
			cur = models.NewConsistencyRecord(rec.UserID)
		}
		if _, err := s.Store.UpsertConsistencyRecord(ctx, cur, cur.Version); err != nil {
			return 0, err
		}
	}
	return s.Store.UpsertConsistencyRecord(ctx, rec, expected)
}

// stallingStore blocks every record read until the context gives up.
type stallingStore struct {
	*memory.Store
}

func (s *stallingStore) GetConsistencyRecord(ctx context.Context, userID string) (models.ConsistencyRecord, error) {
	<-ctx.Done()
	return models.ConsistencyRecord{}, ctx.Err()
}

// flakyStore fails the first `failures` record writes with a transport error.
type flakyStore struct {
	*memory.Store
	failures int32
	upserts  atomic.Int32
}

func (s *flakyStore) UpsertConsistencyRecord(ctx context.Context, rec models.ConsistencyRecord, expected int64) (int64, error) {
	if s.upserts.Add(1) <= s.failures {
		return 0, errors.New("connection reset")
	}
	return s.Store.UpsertConsistencyRecord(ctx, rec, expected)
}

func TestSubmitRetryAfterFailedRecordWrite(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: memory.New(), failures: 1}
	e := New(store, store, Options{Location: time.UTC, MaxConflictRetries: 3})

	ev := models.ReflectionEvent{ID: "ev-1", UserID: "u1", OccurredAt: day(1), WordCount: 20}

	_, err := e.Submit(ctx, ev)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)

	res, err := e.Submit(ctx, ev)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, 1, res.Streak.CurrentStreak)

	rec, err := e.Record(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CurrentStreak)

	res, err = e.Submit(ctx, ev)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Equal(t, 1, res.Streak.CurrentStreak)

	n, err := store.CountEvents(ctx, "u1", day(-5), day(5))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSubmitRetryUnlocksMilestone(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: memory.New()}
	e := New(store, store, Options{Location: time.UTC, MaxConflictRetries: 3})

	for d := 1; d <= 2; d++ {
		_, err := e.Submit(ctx, models.ReflectionEvent{ID: fmt.Sprintf("ev-%d", d), UserID: "u1", OccurredAt: day(d)})
		require.NoError(t, err)
	}

	store.failures = store.upserts.Load() + 1
	third := models.ReflectionEvent{ID: "ev-3", UserID: "u1", OccurredAt: day(3)}
	_, err := e.Submit(ctx, third)
	require.Error(t, err)

	res, err := e.Submit(ctx, third)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, 3, res.Streak.CurrentStreak)
	require.Len(t, res.Unlocked, 1)
	assert.Equal(t, "3d", res.Unlocked[0].ID)
}

func TestConflictIsRetried(t *testing.T) {
	ctx := context.Background()
	store := &racingStore{Store: memory.New(), races: 2}
	e := New(store, store, Options{Location: time.UTC, MaxConflictRetries: 3})

	upd, err := e.RecordActivity(ctx, "u1", day(1))
	require.NoError(t, err)
	assert.Equal(t, 1, upd.CurrentStreak)
	assert.Equal(t, int32(3), store.upserts.Load())
}

func TestConflictRetriesAreBounded(t *testing.T) {
	ctx := context.Background()
	store := &racingStore{Store: memory.New(), races: 100}
	e := New(store, store, Options{Location: time.UTC, MaxConflictRetries: 2})

	_, err := e.RecordActivity(ctx, "u1", day(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Equal(t, int32(3), store.upserts.Load())
}

func TestStoreTimeoutIsUnavailable(t *testing.T) {
	store := &stallingStore{Store: memory.New()}
	e := New(store, store, Options{Location: time.UTC, StoreTimeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := e.RecordActivity(context.Background(), "u1", day(1))
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	assert.True(t, apperrors.IsRetryable(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestUserLocksAreReleased(t *testing.T) {
	l := newUserLocks()
	release := l.lock("a")
	assert.Equal(t, 1, l.size())
	release()
	assert.Equal(t, 0, l.size())
}
