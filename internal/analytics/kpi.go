// Package analytics computes per-period reflection KPIs and classifies
// mood and frequency trends.
package analytics

import (
	"math"
	"slices"
	"time"

	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/progress"
	"github.com/julianstephens/reflekt/internal/utils"
)

// Input holds one period's events and the size of the period before it.
type Input struct {
	UserID        string
	Period        constants.Period
	Start         time.Time
	End           time.Time
	Events        []models.ReflectionEvent
	PreviousCount int
	Location      *time.Location
}

// Compute builds the KPI report for in.
func Compute(in Input) models.KPIReport {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	events := slices.Clone(in.Events)
	slices.SortStableFunc(events, func(a, b models.ReflectionEvent) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})

	r := models.KPIReport{
		UserID:             in.UserID,
		Period:             in.Period,
		PeriodStart:        in.Start,
		PeriodEnd:          in.End,
		ReflectionCount:    len(events),
		PreviousPeriodSize: in.PreviousCount,
	}

	if days := int(in.Period); days > 0 {
		r.ConsistencyPercentage = 100 * float64(len(events)) / float64(days)
	}

	var moodSum, moodN int
	for _, e := range events {
		r.TotalWords += e.WordCount
		if e.HasMood() {
			moodSum += *e.MoodScore
			moodN++
		}
	}
	if len(events) > 0 {
		r.AverageWordsPerDay = float64(r.TotalWords) / float64(len(events))
	}
	if moodN > 0 {
		avg := float64(moodSum) / float64(moodN)
		r.AverageMoodScore = &avg
	}

	r.MostActiveWeekday, r.HasMostActiveWeekday = MostActiveWeekday(events, loc)
	r.MoodTrend = MoodTrendOf(events, MinMoodsFor(in.Period))
	r.Frequency = FrequencyOf(events, loc)
	r.FrequencyTrend = FrequencyTrend(in.PreviousCount, len(events))

	return r
}

// MinMoodsFor is the number of mood-bearing events a period needs before its
// mood trend is classified. Longer periods need a larger sample.
func MinMoodsFor(p constants.Period) int {
	if p <= constants.PeriodWeekly {
		return constants.MinMoodsWeekly
	}
	return constants.MinMoodsMonthly
}

// MostActiveWeekday returns the weekday with the most events. Ties go to the
// weekday seen first in chronological order. events must be chronological.
func MostActiveWeekday(events []models.ReflectionEvent, loc *time.Location) (time.Weekday, bool) {
	var counts [7]int
	var order []time.Weekday

	for _, e := range events {
		wd := e.OccurredAt.In(loc).Weekday()
		if counts[wd] == 0 {
			order = append(order, wd)
		}
		counts[wd]++
	}
	if len(order) == 0 {
		return time.Sunday, false
	}

	best := order[0]
	for _, wd := range order[1:] {
		if counts[wd] > counts[best] {
			best = wd
		}
	}
	return best, true
}

// MoodTrendOf compares the average mood of the earlier half of the
// mood-bearing events with the later half, split by progress.Halves.
// events must be chronological.
func MoodTrendOf(events []models.ReflectionEvent, minSamples int) models.MoodTrend {
	var moods []float64
	for _, e := range events {
		if e.HasMood() {
			moods = append(moods, float64(*e.MoodScore))
		}
	}

	t := models.MoodTrend{Samples: len(moods), Direction: constants.TrendStable}
	switch {
	case len(moods) == 0:
		t.Status = models.MoodTrendNoData
		return t
	case len(moods) < max(2, minSamples):
		t.Status = models.MoodTrendInsufficient
		return t
	}

	first, second := progress.Halves(moods)
	earlier, later := mean(first), mean(second)
	if earlier > 0 {
		t.ChangePct = 100 * (later - earlier) / earlier
	}

	switch {
	case later > earlier:
		t.Status, t.Direction = models.MoodTrendImproving, constants.TrendUp
	case later < earlier:
		t.Status, t.Direction = models.MoodTrendDeclining, constants.TrendDown
	default:
		t.Status = models.MoodTrendStable
	}
	return t
}

// FrequencyOf buckets the average spacing between distinct reflection days.
func FrequencyOf(events []models.ReflectionEvent, loc *time.Location) models.Frequency {
	days := make([]time.Time, 0, len(events))
	for _, e := range events {
		days = append(days, utils.DateIn(e.OccurredAt, loc))
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	days = slices.Compact(days)

	switch len(days) {
	case 0:
		return models.Frequency{Kind: models.FrequencyNone}
	case 1:
		return models.Frequency{Kind: models.FrequencySingle}
	}

	span := utils.DaysBetweenDates(days[0], days[len(days)-1])
	avg := float64(span) / float64(len(days)-1)

	if avg <= constants.AlmostDailyGap {
		return models.Frequency{Kind: models.FrequencyAlmostDaily, AverageGap: avg}
	}
	return models.Frequency{
		Kind:       models.FrequencyEveryNDays,
		EveryNDays: int(math.Round(avg)),
		AverageGap: avg,
	}
}

// FrequencyTrend compares reflection counts of two equal-length periods.
func FrequencyTrend(previous, current int) constants.TrendDirection {
	if previous == 0 {
		if current == 0 {
			return constants.TrendInsufficient
		}
		return constants.TrendUp
	}
	return progress.TrendOf(100 * float64(current-previous) / float64(previous))
}

func mean(vs []float64) float64 {
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
