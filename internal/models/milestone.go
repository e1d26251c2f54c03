package models

// MilestoneDefinition is one entry of the static milestone table.
type MilestoneDefinition struct {
	ThresholdDays int
	ID            string
	Title         string
	Description   string
	Badge         string
}

// MilestoneStatus pairs a definition with a user's standing against it.
type MilestoneStatus struct {
	MilestoneDefinition
	Achieved bool
	DaysToGo int
}

// MilestoneOverview summarizes a user's milestone ledger.
type MilestoneOverview struct {
	Milestones      []MilestoneStatus
	Achieved        int
	Total           int
	AchievementRate float64
	// Next is nil once every milestone is unlocked.
	Next           *MilestoneDefinition
	DaysToNext     int
	ProgressToNext float64
	CurrentStreak  int
}
