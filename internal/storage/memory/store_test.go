package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/storage"
	"github.com/julianstephens/reflekt/internal/storage/storagetest"
)

func TestContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return New()
	})
}

func TestCancelledContextIsUnavailable(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetConsistencyRecord(ctx, "u1")
	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestDuplicateEventID(t *testing.T) {
	s := New()
	ctx := context.Background()
	e := storagetest.Event("u1", time.Now(), 5, nil)

	require.NoError(t, s.InsertEvent(ctx, e))
	assert.ErrorIs(t, s.InsertEvent(ctx, e), apperrors.ErrConflict)
}

func TestReturnedRecordIsACopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	rec := storagetest.Record("u1")
	rec.UnlockedMilestones["3d"] = true
	_, err := s.UpsertConsistencyRecord(ctx, rec, 0)
	require.NoError(t, err)

	got, err := s.GetConsistencyRecord(ctx, "u1")
	require.NoError(t, err)
	got.UnlockedMilestones["66d"] = true

	again, err := s.GetConsistencyRecord(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, again.UnlockedMilestones["66d"])
}
