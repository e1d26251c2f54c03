package habits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/reflekt/internal/models"
)

var base = time.Date(2025, 3, 3, 20, 0, 0, 0, time.UTC)

func event(day, streakDay int, text string) models.ReflectionEvent {
	return models.ReflectionEvent{
		UserID:     "u1",
		OccurredAt: base.AddDate(0, 0, day),
		StreakDay:  streakDay,
		Text:       text,
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"nothing", "A quiet day, nothing much happened.", nil},
		{"word forms", "Woke up early, went Jogging and then meditated.", []string{"running", "meditation", "wake up"}},
		{"whole words only", "The workout was hard but the homework was harder.", []string{"exercise"}},
		{"repeats counted once", "Coffee at breakfast, more coffee after lunch.", []string{"breakfast", "lunch", "coffee"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nilIfEmpty(Extract(tt.text)))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestAnalyze(t *testing.T) {
	events := []models.ReflectionEvent{
		event(0, 1, "Morning coffee, then a long meeting at work."),
		event(1, 2, "Went to the gym after work and read a book before bed."),
		event(3, 1, "Dinner with family, then journaling."),
	}

	a := Analyze(events, 7, time.UTC)
	assert.Equal(t, 3, a.Reflections)
	assert.Equal(t, []string{"gym", "journaling", "reading", "work", "meeting", "dinner", "coffee", "bedtime", "family"}, a.Habits)
	assert.Equal(t, []string{"coffee", "dinner", "bedtime"}, a.Anchors)
	assert.Equal(t, []Category{Fitness, Mindfulness, Learning, Productivity, Nutrition, Sleep, Social}, a.Categories)

	// mean streak day 4/3 over 3 reflections, 3 of 7 days active
	assert.Equal(t, 44, a.Consistency.Reflection)
	assert.Equal(t, 43, a.Consistency.Overall)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(nil, 7, time.UTC)
	assert.Zero(t, a.Reflections)
	assert.Empty(t, a.Habits)
	assert.Empty(t, a.Categories)
	assert.Equal(t, Consistency{}, a.Consistency)
}

func TestAnalyzeCapsConsistency(t *testing.T) {
	events := []models.ReflectionEvent{
		event(0, 40, "Gym."),
		event(0, 40, "Gym again."),
	}
	a := Analyze(events, 1, time.UTC)
	assert.Equal(t, 100, a.Consistency.Reflection)
	assert.Equal(t, 100, a.Consistency.Overall)
}

func TestTrack(t *testing.T) {
	events := []models.ReflectionEvent{
		event(4, 0, "Slept badly."),
		event(0, 0, "Yoga in the morning."),
		event(1, 0, "Went running."),
		event(2, 0, "Too tired to move."),
		event(3, 0, "Walked to the office and did some stretching."),
	}

	s := Track(events, Fitness)
	require.Equal(t, Fitness, s.Category)
	assert.Equal(t, 5, s.Attempts)
	assert.Equal(t, 3, s.Mentions)
	assert.Equal(t, 2, s.LongestRun)
	assert.Equal(t, 60, s.Rate)

	assert.Equal(t, Success{Category: Social}, Track(nil, Social))
}
