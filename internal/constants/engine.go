package constants

// Period is a KPI reporting window in days.
type Period int

// TrendDirection is the coarse direction of a period-over-period change.
type TrendDirection string

const (
	PeriodWeekly  Period = 7
	PeriodMonthly Period = 30

	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"

	// Progress scoring
	DefaultProgressWindowDays = 30
	EngagementBaselineWords   = 200
	StreakBonusCap            = 10
	StreakDayBonusFactor      = 5
	StreakDayBonusCap         = 25
	HabitAutomationDays       = 66
	NeutralMoodImprovement    = 50.0

	WeightConsistency     = 0.4
	WeightMoodImprovement = 0.3
	WeightEngagement      = 0.2
	WeightStreakBonus     = 0.1

	// Improvement windows
	WeeklyWindowDays  = 7
	MonthlyWindowDays = 30
	MoodWeight        = 0.7
	WordsWeight       = 0.3
	WordsPerPoint     = 5
	WordsScoreCap     = 30

	// TrendThresholdPct is the percent change beyond which a trend is up or down.
	TrendThresholdPct = 5.0

	// Minimum mood-bearing events before a KPI mood trend is computed
	MinMoodsWeekly  = 2
	MinMoodsMonthly = 4

	// AlmostDailyGap is the largest average gap (days) still reported as almost daily.
	AlmostDailyGap = 1.2

	// Streak calendar
	DefaultCalendarDays = 30
	ForgivenessDivisor  = 7
	ForgivenessMaxGap   = 2
)

// TrendInsufficient marks a comparison with no baseline on either side.
const TrendInsufficient TrendDirection = "insufficient"
