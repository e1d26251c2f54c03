package models

import (
	"time"

	"github.com/julianstephens/reflekt/internal/constants"
)

// MoodTrendStatus distinguishes "no data" from "not enough data".
type MoodTrendStatus string

// FrequencyKind buckets how often a user reflects.
type FrequencyKind string

const (
	MoodTrendNoData       MoodTrendStatus = "no_data"
	MoodTrendInsufficient MoodTrendStatus = "insufficient"
	MoodTrendImproving    MoodTrendStatus = "improving"
	MoodTrendDeclining    MoodTrendStatus = "declining"
	MoodTrendStable       MoodTrendStatus = "stable"

	FrequencyNone        FrequencyKind = "none"
	FrequencySingle      FrequencyKind = "single"
	FrequencyAlmostDaily FrequencyKind = "almost_daily"
	FrequencyEveryNDays  FrequencyKind = "every_n_days"
)

// MoodTrend is the first-half vs second-half mood comparison of a period.
type MoodTrend struct {
	Status    MoodTrendStatus
	Direction constants.TrendDirection
	// ChangePct is only meaningful for improving, declining and stable.
	ChangePct float64
	Samples   int
}

// Frequency describes the spacing between reflection days.
type Frequency struct {
	Kind       FrequencyKind
	EveryNDays int
	AverageGap float64
}

// KPIReport is the per-period summary returned by the analyzer.
type KPIReport struct {
	UserID                string
	Period                constants.Period
	PeriodStart           time.Time
	PeriodEnd             time.Time
	ReflectionCount       int
	TotalWords            int
	ConsistencyPercentage float64
	AverageWordsPerDay    float64
	MostActiveWeekday     time.Weekday
	HasMostActiveWeekday  bool
	AverageMoodScore      *float64
	MoodTrend             MoodTrend
	Frequency             Frequency
	// FrequencyTrend compares the reflection count with the previous period.
	FrequencyTrend     constants.TrendDirection
	PreviousPeriodSize int
}
