package progress

import (
	"math"
	"time"

	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/models"
)

// Timeline scores each reflection for charting, oldest first. A missing mood
// contributes nothing.
func Timeline(events []models.ReflectionEvent, loc *time.Location) []models.TimelinePoint {
	sorted := chronological(events)
	points := make([]models.TimelinePoint, 0, len(sorted))

	for _, e := range sorted {
		mood := 0.0
		if e.HasMood() {
			mood = float64(*e.MoodScore)
		}
		raw := 0.4*mood +
			min(30, 2*float64(e.StreakDay)) +
			min(30, float64(e.WordCount)/10)

		points = append(points, models.TimelinePoint{
			EventID:    e.ID,
			OccurredAt: e.OccurredAt.In(loc).Format(constants.DateFormat),
			Score:      min(100, int(math.Round(raw))),
			MoodScore:  e.MoodScore,
			StreakDay:  e.StreakDay,
			WordCount:  e.WordCount,
		})
	}
	return points
}
