package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/models"
)

// 2025-03-03 is a Monday
var monday = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func ev(day int, words int, mood *int) models.ReflectionEvent {
	return models.ReflectionEvent{OccurredAt: monday.AddDate(0, 0, day), WordCount: words, MoodScore: mood}
}

func m(v int) *int { return &v }

func TestComputeCounts(t *testing.T) {
	events := []models.ReflectionEvent{ev(0, 100, m(60)), ev(1, 50, nil), ev(2, 30, m(80))}
	r := Compute(Input{UserID: "u1", Period: constants.PeriodWeekly, Events: events, PreviousCount: 3})

	assert.Equal(t, 3, r.ReflectionCount)
	assert.Equal(t, 180, r.TotalWords)
	assert.InDelta(t, 100*3.0/7.0, r.ConsistencyPercentage, 1e-9)
	assert.InDelta(t, 60.0, r.AverageWordsPerDay, 1e-9)
	require.NotNil(t, r.AverageMoodScore)
	assert.InDelta(t, 70.0, *r.AverageMoodScore, 1e-9)
	assert.Equal(t, constants.TrendStable, r.FrequencyTrend)
}

func TestComputeEmpty(t *testing.T) {
	r := Compute(Input{Period: constants.PeriodMonthly})

	assert.Zero(t, r.ReflectionCount)
	assert.Zero(t, r.AverageWordsPerDay)
	assert.Nil(t, r.AverageMoodScore)
	assert.False(t, r.HasMostActiveWeekday)
	assert.Equal(t, models.MoodTrendNoData, r.MoodTrend.Status)
	assert.Equal(t, models.FrequencyNone, r.Frequency.Kind)
	assert.Equal(t, constants.TrendInsufficient, r.FrequencyTrend)
}

func TestMostActiveWeekday(t *testing.T) {
	tests := []struct {
		name   string
		events []models.ReflectionEvent
		want   time.Weekday
	}{
		{"single", []models.ReflectionEvent{ev(2, 1, nil)}, time.Wednesday},
		{"clear winner", []models.ReflectionEvent{ev(0, 1, nil), ev(1, 1, nil), ev(7, 1, nil)}, time.Monday},
		{"tie goes to first seen", []models.ReflectionEvent{ev(1, 1, nil), ev(7, 1, nil), ev(14, 1, nil), ev(15, 1, nil)}, time.Tuesday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MostActiveWeekday(tt.events, time.UTC)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMostActiveWeekdayUsesLocation(t *testing.T) {
	// 20:00 UTC Monday is Tuesday in Tokyo
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	e := models.ReflectionEvent{OccurredAt: time.Date(2025, 3, 3, 20, 0, 0, 0, time.UTC)}

	got, _ := MostActiveWeekday([]models.ReflectionEvent{e}, tokyo)
	assert.Equal(t, time.Tuesday, got)
}

func TestMoodTrendOf(t *testing.T) {
	tests := []struct {
		name      string
		events    []models.ReflectionEvent
		min       int
		status    models.MoodTrendStatus
		direction constants.TrendDirection
	}{
		{"no moods", []models.ReflectionEvent{ev(0, 1, nil)}, 2, models.MoodTrendNoData, constants.TrendStable},
		{"one mood weekly", []models.ReflectionEvent{ev(0, 1, m(50))}, 2, models.MoodTrendInsufficient, constants.TrendStable},
		{"three moods monthly", []models.ReflectionEvent{ev(0, 1, m(10)), ev(1, 1, m(50)), ev(2, 1, m(90))}, 4, models.MoodTrendInsufficient, constants.TrendStable},
		{"improving weekly", []models.ReflectionEvent{ev(0, 1, m(40)), ev(1, 1, m(60))}, 2, models.MoodTrendImproving, constants.TrendUp},
		{"declining weekly", []models.ReflectionEvent{ev(0, 1, m(60)), ev(1, 1, m(40))}, 2, models.MoodTrendDeclining, constants.TrendDown},
		{"identical averages", []models.ReflectionEvent{ev(0, 1, m(50)), ev(1, 1, m(50))}, 2, models.MoodTrendStable, constants.TrendStable},
		// [50] vs [80, 20] -> equal averages
		{"odd count puts extra in later half", []models.ReflectionEvent{ev(0, 1, m(50)), ev(1, 1, m(80)), ev(2, 1, m(20))}, 2, models.MoodTrendStable, constants.TrendStable},
		{"improving monthly", []models.ReflectionEvent{ev(0, 1, m(30)), ev(5, 1, m(40)), ev(10, 1, m(70)), ev(15, 1, m(80))}, 4, models.MoodTrendImproving, constants.TrendUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoodTrendOf(tt.events, tt.min)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.direction, got.Direction)
		})
	}
}

func TestInsufficientIsDistinctFromNoData(t *testing.T) {
	none := Compute(Input{Period: constants.PeriodWeekly, Events: []models.ReflectionEvent{ev(0, 10, nil)}})
	one := Compute(Input{Period: constants.PeriodWeekly, Events: []models.ReflectionEvent{ev(0, 10, m(70))}})

	assert.Equal(t, models.MoodTrendNoData, none.MoodTrend.Status)
	assert.Equal(t, models.MoodTrendInsufficient, one.MoodTrend.Status)
	assert.Equal(t, constants.TrendStable, one.MoodTrend.Direction)
}

func TestFrequencyOf(t *testing.T) {
	tests := []struct {
		name   string
		events []models.ReflectionEvent
		kind   models.FrequencyKind
		n      int
	}{
		{"none", nil, models.FrequencyNone, 0},
		{"single day twice", []models.ReflectionEvent{ev(0, 1, nil), ev(0, 1, nil)}, models.FrequencySingle, 0},
		{"daily", []models.ReflectionEvent{ev(0, 1, nil), ev(1, 1, nil), ev(2, 1, nil)}, models.FrequencyAlmostDaily, 0},
		// gaps 1,1,1,2 -> 1.25
		{"just above almost daily", []models.ReflectionEvent{ev(0, 1, nil), ev(1, 1, nil), ev(2, 1, nil), ev(3, 1, nil), ev(5, 1, nil)}, models.FrequencyEveryNDays, 1},
		{"every three days", []models.ReflectionEvent{ev(9, 1, nil), ev(0, 1, nil), ev(3, 1, nil), ev(6, 1, nil)}, models.FrequencyEveryNDays, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrequencyOf(tt.events, time.UTC)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.n, got.EveryNDays)
		})
	}
}

func TestFrequencyTrend(t *testing.T) {
	assert.Equal(t, constants.TrendInsufficient, FrequencyTrend(0, 0))
	assert.Equal(t, constants.TrendUp, FrequencyTrend(0, 2))
	assert.Equal(t, constants.TrendUp, FrequencyTrend(4, 5))
	assert.Equal(t, constants.TrendDown, FrequencyTrend(5, 4))
	assert.Equal(t, constants.TrendStable, FrequencyTrend(20, 21))
}

func TestMinMoodsFor(t *testing.T) {
	assert.Equal(t, 2, MinMoodsFor(constants.PeriodWeekly))
	assert.Equal(t, 4, MinMoodsFor(constants.PeriodMonthly))
}
