// Package milestone holds the static milestone table and evaluates which
// thresholds a streak has crossed.
package milestone

import (
	"github.com/julianstephens/reflekt/internal/models"
)

var definitions = []models.MilestoneDefinition{
	{
		ThresholdDays: 3,
		ID:            "3d",
		Title:         "First Steps",
		Description:   "Three days of reflection in a row",
		Badge:         "🎉",
	},
	{
		ThresholdDays: 7,
		ID:            "7d",
		Title:         "Golden Week",
		Description:   "A full week of consistent reflection",
		Badge:         "🏆",
	},
	{
		ThresholdDays: 21,
		ID:            "21d",
		Title:         "New Ritual",
		Description:   "21 days, the habit is taking root",
		Badge:         "💎",
	},
	{
		ThresholdDays: 66,
		ID:            "66d",
		Title:         "Habit Master",
		Description:   "66 days, reflection is now automatic",
		Badge:         "🚀",
	},
}

// Definitions returns the milestone table in ascending threshold order.
func Definitions() []models.MilestoneDefinition {
	out := make([]models.MilestoneDefinition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition with the given id.
func Lookup(id string) (models.MilestoneDefinition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return models.MilestoneDefinition{}, false
}

// Unlock returns the milestones newly crossed by currentStreak, ascending,
// and the record with them added. Existing unlocks are never removed; rec
// is not modified.
func Unlock(rec models.ConsistencyRecord, currentStreak int) (models.ConsistencyRecord, []models.MilestoneDefinition) {
	next := rec.Clone()
	var unlocked []models.MilestoneDefinition

	for _, d := range definitions {
		if currentStreak >= d.ThresholdDays && !next.HasMilestone(d.ID) {
			next.UnlockedMilestones[d.ID] = true
			unlocked = append(unlocked, d)
		}
	}
	return next, unlocked
}

// Overview describes rec's standing against every milestone.
func Overview(rec models.ConsistencyRecord) models.MilestoneOverview {
	ov := models.MilestoneOverview{
		Milestones:    make([]models.MilestoneStatus, 0, len(definitions)),
		Total:         len(definitions),
		CurrentStreak: rec.CurrentStreak,
	}

	for _, d := range definitions {
		st := models.MilestoneStatus{
			MilestoneDefinition: d,
			Achieved:            rec.HasMilestone(d.ID),
		}
		if st.Achieved {
			ov.Achieved++
		} else {
			st.DaysToGo = max(0, d.ThresholdDays-rec.CurrentStreak)
			if ov.Next == nil {
				next := d
				ov.Next = &next
				ov.DaysToNext = st.DaysToGo
				ov.ProgressToNext = min(100, 100*float64(rec.CurrentStreak)/float64(d.ThresholdDays))
			}
		}
		ov.Milestones = append(ov.Milestones, st)
	}

	if ov.Total > 0 {
		ov.AchievementRate = 100 * float64(ov.Achieved) / float64(ov.Total)
	}
	return ov
}
