package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/julianstephens/reflekt/internal/models"
)

func TestStatsOf(t *testing.T) {
	rec := recordWith(3, 5, 9)
	rec.CreatedAt = at(0)

	events := []models.ReflectionEvent{
		{OccurredAt: at(5), StreakDay: 5},
		{OccurredAt: at(7), StreakDay: 1},
		{OccurredAt: at(8), StreakDay: 2},
		{OccurredAt: at(9), StreakDay: 3},
		{OccurredAt: at(9).Add(time.Hour), StreakDay: 3},
	}

	st := StatsOf(rec, events, at(9), time.UTC)
	assert.Equal(t, 4, st.DaysActive)
	assert.Equal(t, 10, st.PossibleDays)
	assert.InDelta(t, 40.0, st.ConsistencyRate, 0.001)
	assert.InDelta(t, 2.8, st.AverageStreakDay, 0.001)
	assert.Equal(t, 5, st.LongestInWindow)
}

func TestStatsOfOldRecordUsesFullWindow(t *testing.T) {
	rec := recordWith(1, 1, 60)
	rec.CreatedAt = at(0)

	st := StatsOf(rec, []models.ReflectionEvent{{OccurredAt: at(60), StreakDay: 1}}, at(60), time.UTC)
	assert.Equal(t, StatsWindow, st.PossibleDays)
	assert.Equal(t, 1, st.DaysActive)
	assert.InDelta(t, 100.0/30, st.ConsistencyRate, 0.001)
}

func TestStatsOfBackdatedReflections(t *testing.T) {
	rec := recordWith(2, 2, 9)
	rec.CreatedAt = at(9)

	events := []models.ReflectionEvent{
		{OccurredAt: at(8), StreakDay: 1},
		{OccurredAt: at(9), StreakDay: 2},
	}
	st := StatsOf(rec, events, at(9), time.UTC)
	assert.Equal(t, 2, st.PossibleDays)
	assert.InDelta(t, 100.0, st.ConsistencyRate, 0.001)
}

func TestStatsOfEmpty(t *testing.T) {
	st := StatsOf(models.NewConsistencyRecord("u1"), nil, at(0), time.UTC)
	assert.Equal(t, StatsWindow, st.PossibleDays)
	assert.Zero(t, st.DaysActive)
	assert.Zero(t, st.ConsistencyRate)
	assert.Zero(t, st.AverageStreakDay)
	assert.Zero(t, st.LongestInWindow)
}
