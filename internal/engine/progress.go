package engine

import (
	"context"

	"github.com/julianstephens/reflekt/internal/constants"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/progress"
	"github.com/julianstephens/reflekt/internal/utils"
)

// ComputeProgress scores userID over the trailing windowDays calendar days.
// It reads the stores and never writes.
func (e *Engine) ComputeProgress(ctx context.Context, userID string, windowDays int) (models.ProgressSnapshot, error) {
	if err := validateUser(userID); err != nil {
		return models.ProgressSnapshot{}, err
	}
	if windowDays <= 0 {
		return models.ProgressSnapshot{}, apperrors.Invalid("progress window must be positive, got %d", windowDays)
	}

	rec, err := e.getRecord(ctx, userID)
	if err != nil {
		return models.ProgressSnapshot{}, err
	}

	now := e.Now()
	in := progress.Input{WindowDays: windowDays, CurrentStreak: rec.CurrentStreak}

	windows := []struct {
		days, offset int
		dst          *[]models.ReflectionEvent
	}{
		{windowDays, 0, &in.Window},
		{constants.WeeklyWindowDays, 0, &in.ThisWeek},
		{constants.WeeklyWindowDays, 1, &in.LastWeek},
		{constants.MonthlyWindowDays, 0, &in.ThisMonth},
		{constants.MonthlyWindowDays, 1, &in.LastMonth},
	}
	for _, w := range windows {
		from, to := utils.TrailingDays(now, w.days, w.offset, e.loc)
		events, err := e.queryEvents(ctx, userID, from, to)
		if err != nil {
			return models.ProgressSnapshot{}, err
		}
		*w.dst = events
	}

	return progress.Compute(in), nil
}

// ProgressTimeline scores each reflection of the trailing days calendar days.
func (e *Engine) ProgressTimeline(ctx context.Context, userID string, days int) ([]models.TimelinePoint, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, apperrors.Invalid("timeline days must be positive, got %d", days)
	}

	from, to := utils.TrailingDays(e.Now(), days, 0, e.loc)
	events, err := e.queryEvents(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return progress.Timeline(events, e.loc), nil
}
