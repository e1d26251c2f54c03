package streak

import (
	"time"

	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/utils"
)

// StatsWindow is the number of trailing days Stats looks at.
const StatsWindow = 30

// Stats summarizes streak behaviour over the trailing StatsWindow days.
type Stats struct {
	DaysActive int
	// PossibleDays is the window shortened to the days since the record was
	// created or since the earliest reflection, whichever is older.
	PossibleDays int
	// ConsistencyRate is DaysActive as a percentage of PossibleDays.
	ConsistencyRate float64
	// AverageStreakDay is the mean streak value the window's reflections
	// produced.
	AverageStreakDay float64
	LongestInWindow  int
}

// StatsOf computes Stats from rec and the reflections inside the window
// ending at now.
func StatsOf(rec models.ConsistencyRecord, events []models.ReflectionEvent, now time.Time, loc *time.Location) Stats {
	s := Stats{PossibleDays: StatsWindow}
	start := rec.CreatedAt
	for _, e := range events {
		if start.IsZero() || e.OccurredAt.Before(start) {
			start = e.OccurredAt
		}
	}
	if !start.IsZero() {
		since := utils.CalendarDaysBetween(start, now, loc) + 1
		s.PossibleDays = min(StatsWindow, max(1, since))
	}

	active := map[time.Time]bool{}
	sum := 0
	for _, e := range events {
		active[utils.DateIn(e.OccurredAt, loc)] = true
		sum += e.StreakDay
		s.LongestInWindow = max(s.LongestInWindow, e.StreakDay)
	}
	s.DaysActive = len(active)
	if len(events) > 0 {
		s.AverageStreakDay = float64(sum) / float64(len(events))
	}
	s.ConsistencyRate = min(100, 100*float64(s.DaysActive)/float64(s.PossibleDays))
	return s
}
