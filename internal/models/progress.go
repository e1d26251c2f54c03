package models

import "github.com/julianstephens/reflekt/internal/constants"

// ProgressSnapshot is derived on demand and never stored.
type ProgressSnapshot struct {
	CumulativeProgress    int
	HabitMaturity         int
	WeeklyImprovementPct  float64
	MonthlyImprovementPct float64
	TrendDirection        constants.TrendDirection

	Components       ProgressComponents
	WindowDays       int
	ReflectionCount  int
	MaturityStage    string
	AchievementLevel string
}

// ProgressComponents are the weighted inputs of the cumulative score.
type ProgressComponents struct {
	Consistency     float64
	MoodImprovement float64
	Engagement      float64
	StreakBonus     float64
}

// TimelinePoint is the per-reflection progress score used for charts.
type TimelinePoint struct {
	EventID    string
	OccurredAt string
	Score      int
	MoodScore  *int
	StreakDay  int
	WordCount  int
}
