package streak

import (
	"time"

	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/utils"
)

// Day is one cell of the streak calendar.
type Day struct {
	Date          time.Time
	HasReflection bool
	// StreakDay is the highest streak value reached that day.
	StreakDay int
	// MoodScore is the mood of the day's last mood-bearing reflection.
	MoodScore *int
}

// Calendar lays out the days calendar days ending today, oldest first.
// events may be in any order.
func Calendar(events []models.ReflectionEvent, now time.Time, days int, loc *time.Location) []Day {
	if days <= 0 {
		return nil
	}

	today := utils.DateIn(now, loc)
	start := utils.AddDays(today, -(days - 1))

	cells := make([]Day, days)
	for i := range cells {
		cells[i].Date = utils.AddDays(start, i)
	}

	latestMood := make([]time.Time, days)
	for _, e := range events {
		idx := utils.DaysBetweenDates(start, utils.DateIn(e.OccurredAt, loc))
		if idx < 0 || idx >= days {
			continue
		}
		cell := &cells[idx]
		cell.HasReflection = true
		cell.StreakDay = max(cell.StreakDay, e.StreakDay)
		if e.HasMood() && !e.OccurredAt.Before(latestMood[idx]) {
			mood := *e.MoodScore
			cell.MoodScore = &mood
			latestMood[idx] = e.OccurredAt
		}
	}
	return cells
}

// ActiveDays counts the calendar cells that hold a reflection.
func ActiveDays(cells []Day) int {
	n := 0
	for _, c := range cells {
		if c.HasReflection {
			n++
		}
	}
	return n
}
