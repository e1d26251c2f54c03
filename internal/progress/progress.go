// Package progress scores how a user's reflection habit is developing.
//
// The cumulative score is a single weighted formula:
//
//	round(clamp(0, 100, 0.4*consistency + 0.3*moodImprovement + 0.2*engagement + 0.1*streakBonus))
//
// All intermediate values are kept at full precision; only the reported
// percentages are rounded.
package progress

import (
	"cmp"
	"math"
	"slices"

	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/models"
)

// Input is everything the scorer needs. Event slices hold the events of the
// named windows; order does not matter.
type Input struct {
	WindowDays    int
	CurrentStreak int
	Window        []models.ReflectionEvent

	ThisWeek  []models.ReflectionEvent
	LastWeek  []models.ReflectionEvent
	ThisMonth []models.ReflectionEvent
	LastMonth []models.ReflectionEvent
}

// Compute derives a progress snapshot from in.
func Compute(in Input) models.ProgressSnapshot {
	window := chronological(in.Window)
	weekly := ImprovementPct(in.LastWeek, in.ThisWeek)
	monthly := ImprovementPct(in.LastMonth, in.ThisMonth)

	snap := models.ProgressSnapshot{
		HabitMaturity:         HabitMaturity(in.CurrentStreak),
		WeeklyImprovementPct:  Round2(weekly),
		MonthlyImprovementPct: Round2(monthly),
		TrendDirection:        TrendOf(weekly),
		WindowDays:            in.WindowDays,
		ReflectionCount:       len(window),
	}
	snap.MaturityStage = MaturityStage(snap.HabitMaturity)

	if len(window) > 0 {
		c := models.ProgressComponents{
			Consistency:     ConsistencyScore(window, in.WindowDays),
			MoodImprovement: MoodImprovementScore(window),
			Engagement:      EngagementScore(window),
			StreakBonus:     float64(min(in.CurrentStreak, constants.StreakBonusCap)),
		}
		snap.Components = c
		snap.CumulativeProgress = int(math.Round(clamp(0, 100,
			constants.WeightConsistency*c.Consistency+
				constants.WeightMoodImprovement*c.MoodImprovement+
				constants.WeightEngagement*c.Engagement+
				constants.WeightStreakBonus*c.StreakBonus)))
	}
	snap.AchievementLevel = AchievementLevel(snap.CumulativeProgress)

	return snap
}

// ConsistencyScore is the share of window days with a reflection plus a
// bounded bonus for the average streak day of those reflections.
func ConsistencyScore(events []models.ReflectionEvent, windowDays int) float64 {
	if len(events) == 0 || windowDays <= 0 {
		return 0
	}
	rate := 100 * float64(len(events)) / float64(windowDays)

	streakDays := 0
	for _, e := range events {
		streakDays += e.StreakDay
	}
	avgStreakDay := float64(streakDays) / float64(len(events))
	bonus := min(constants.StreakDayBonusFactor*avgStreakDay, constants.StreakDayBonusCap)

	return min(100, rate+bonus)
}

// MoodImprovementScore compares the later half of the mood-bearing events
// against the earlier half. events must be chronological. Fewer than two
// moods yields the neutral score.
func MoodImprovementScore(events []models.ReflectionEvent) float64 {
	moods := moodScores(events)
	if len(moods) < 2 {
		return constants.NeutralMoodImprovement
	}

	first, second := Halves(moods)
	earlier, later := mean(first), mean(second)
	if earlier == 0 {
		return constants.NeutralMoodImprovement
	}
	return clamp(0, 100, constants.NeutralMoodImprovement+100*(later-earlier)/earlier)
}

// EngagementScore maps the average word count onto 0..100 against the
// engagement baseline.
func EngagementScore(events []models.ReflectionEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	return min(100, 100*averageWords(events)/constants.EngagementBaselineWords)
}

// HabitMaturity is progress toward the 66 day automation mark.
func HabitMaturity(currentStreak int) int {
	if currentStreak <= 0 {
		return 0
	}
	return min(100, int(math.Round(100*float64(currentStreak)/constants.HabitAutomationDays)))
}

// PeriodAverage is the engagement-weighted average used to compare adjacent
// windows. Mood dominates when present; otherwise word count alone.
func PeriodAverage(events []models.ReflectionEvent) float64 {
	if len(events) == 0 {
		return 0
	}
	wordScore := averageWords(events) / constants.WordsPerPoint
	moods := moodScores(events)
	if len(moods) > 0 {
		return constants.MoodWeight*mean(moods) + constants.WordsWeight*min(wordScore, constants.WordsScoreCap)
	}
	return min(wordScore, 100)
}

// ImprovementPct is the percent change of PeriodAverage from previous to
// current. Zero when either side is empty or the previous average is zero.
func ImprovementPct(previous, current []models.ReflectionEvent) float64 {
	if len(previous) == 0 || len(current) == 0 {
		return 0
	}
	prev := PeriodAverage(previous)
	if prev == 0 {
		return 0
	}
	return 100 * (PeriodAverage(current) - prev) / prev
}

// TrendOf classifies a full-precision percent change.
func TrendOf(pct float64) constants.TrendDirection {
	switch {
	case pct > constants.TrendThresholdPct:
		return constants.TrendUp
	case pct < -constants.TrendThresholdPct:
		return constants.TrendDown
	default:
		return constants.TrendStable
	}
}

func MaturityStage(habitMaturity int) string {
	switch {
	case habitMaturity < 15:
		return "sprouting"
	case habitMaturity < 35:
		return "growing"
	case habitMaturity < 55:
		return "rooting"
	case habitMaturity < 80:
		return "nearly automatic"
	default:
		return "automatic"
	}
}

func AchievementLevel(cumulative int) string {
	switch {
	case cumulative < 20:
		return "beginner"
	case cumulative < 40:
		return "growing learner"
	case cumulative < 60:
		return "consistent builder"
	case cumulative < 80:
		return "advanced practitioner"
	default:
		return "master"
	}
}

// Round2 rounds to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func chronological(events []models.ReflectionEvent) []models.ReflectionEvent {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b models.ReflectionEvent) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
	return out
}

func moodScores(events []models.ReflectionEvent) []float64 {
	var moods []float64
	for _, e := range events {
		if e.HasMood() {
			moods = append(moods, float64(*e.MoodScore))
		}
	}
	return moods
}

func averageWords(events []models.ReflectionEvent) float64 {
	total := 0
	for _, e := range events {
		total += e.WordCount
	}
	return float64(total) / float64(len(events))
}

// Halves splits chronological values into an earlier and a later half. The
// later half takes the extra value when the count is odd. Mood improvement
// and the KPI mood trend both compare these halves.
func Halves(values []float64) (earlier, later []float64) {
	split := len(values) / 2
	return values[:split], values[split:]
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func clamp[T cmp.Ordered](lo, hi, v T) T {
	return max(lo, min(hi, v))
}
