package engine

import (
	"context"

	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/habits"
	"github.com/julianstephens/reflekt/internal/streak"
	"github.com/julianstephens/reflekt/internal/utils"
)

// HabitReport is a habit analysis together with per-category tracking.
type HabitReport struct {
	habits.Analysis
	Success []habits.Success
}

// AnalyzeHabits looks for habits in userID's reflections over the trailing
// days calendar days. A user without reflections gets an empty report.
func (e *Engine) AnalyzeHabits(ctx context.Context, userID string, days int) (HabitReport, error) {
	if err := validateUser(userID); err != nil {
		return HabitReport{}, err
	}
	if days <= 0 {
		return HabitReport{}, apperrors.Invalid("analysis window must be positive, got %d", days)
	}

	from, to := utils.TrailingDays(e.Now(), days, 0, e.loc)
	events, err := e.queryEvents(ctx, userID, from, to)
	if err != nil {
		return HabitReport{}, err
	}

	r := HabitReport{Analysis: habits.Analyze(events, days, e.loc)}
	for _, c := range r.Categories {
		r.Success = append(r.Success, habits.Track(events, c))
	}
	return r, nil
}

// StreakStats summarizes userID's streak over the last 30 days.
func (e *Engine) StreakStats(ctx context.Context, userID string) (streak.Stats, error) {
	if err := validateUser(userID); err != nil {
		return streak.Stats{}, err
	}
	rec, err := e.getRecord(ctx, userID)
	if err != nil {
		return streak.Stats{}, err
	}

	now := e.Now()
	from, to := utils.TrailingDays(now, streak.StatsWindow, 0, e.loc)
	events, err := e.queryEvents(ctx, userID, from, to)
	if err != nil {
		return streak.Stats{}, err
	}
	return streak.StatsOf(rec, events, now, e.loc), nil
}
