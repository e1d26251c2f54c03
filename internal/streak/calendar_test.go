package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/reflekt/internal/models"
)

func moodOf(v int) *int { return &v }

func TestCalendar(t *testing.T) {
	now := at(9)
	events := []models.ReflectionEvent{
		{OccurredAt: at(9).Add(2 * time.Hour), StreakDay: 3, MoodScore: moodOf(80)},
		{OccurredAt: at(7), StreakDay: 1, MoodScore: moodOf(40)},
		{OccurredAt: at(8), StreakDay: 2},
		{OccurredAt: at(9), StreakDay: 3, MoodScore: moodOf(55)},
		{OccurredAt: at(-40), StreakDay: 9},
	}

	cells := Calendar(events, now, 30, time.UTC)
	require.Len(t, cells, 30)

	last := cells[29]
	assert.True(t, last.HasReflection)
	assert.Equal(t, 3, last.StreakDay)
	require.NotNil(t, last.MoodScore)
	assert.Equal(t, 80, *last.MoodScore)

	assert.True(t, cells[28].HasReflection)
	assert.Nil(t, cells[28].MoodScore)
	assert.Equal(t, 40, *cells[27].MoodScore)
	assert.False(t, cells[0].HasReflection)
	assert.True(t, cells[0].Date.Before(cells[1].Date))

	assert.Equal(t, 3, ActiveDays(cells))
}

func TestCalendarEmpty(t *testing.T) {
	assert.Nil(t, Calendar(nil, at(0), 0, time.UTC))
	cells := Calendar(nil, at(0), 7, time.UTC)
	assert.Len(t, cells, 7)
	assert.Zero(t, ActiveDays(cells))
}
