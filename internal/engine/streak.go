package engine

import (
	"context"
	"time"

	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/logger"
	"github.com/julianstephens/reflekt/internal/milestone"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/streak"
	"github.com/julianstephens/reflekt/internal/utils"
)

// RecordActivity advances userID's streak for activity at now. A user
// without a record starts at 1. Calling it again on the same calendar day
// leaves the streak unchanged.
func (e *Engine) RecordActivity(ctx context.Context, userID string, now time.Time) (models.StreakUpdate, error) {
	if err := validateUser(userID); err != nil {
		return models.StreakUpdate{}, err
	}

	var upd models.StreakUpdate
	_, err := e.update(ctx, userID, func(rec models.ConsistencyRecord, _ bool) (models.ConsistencyRecord, bool, error) {
		next, u := streak.Advance(rec, now, e.loc)
		upd = u
		return next, true, nil
	})
	if err != nil {
		return models.StreakUpdate{}, err
	}

	logger.Info("activity recorded", "user", userID, "streak", upd.CurrentStreak, "maintained", upd.StreakMaintained)
	return upd, nil
}

// CheckUnlocks records every milestone whose threshold currentStreak has
// reached and that userID does not have yet. The newly unlocked milestones
// are returned in ascending order; nothing is written when there are none.
func (e *Engine) CheckUnlocks(ctx context.Context, userID string, currentStreak int) ([]models.MilestoneDefinition, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}

	var unlocked []models.MilestoneDefinition
	_, err := e.update(ctx, userID, func(rec models.ConsistencyRecord, found bool) (models.ConsistencyRecord, bool, error) {
		if !found {
			return rec, false, apperrors.NotFoundf("consistency record for %s", userID)
		}
		next, newly := milestone.Unlock(rec, currentStreak)
		unlocked = newly
		return next, len(newly) > 0, nil
	})
	if err != nil {
		return nil, err
	}

	if len(unlocked) > 0 {
		logger.Info("milestones unlocked", "user", userID, "unlocked", len(unlocked), "streak", currentStreak)
	}
	return unlocked, nil
}

// ResetStreak zeroes userID's current streak and keeps everything else.
func (e *Engine) ResetStreak(ctx context.Context, userID string) error {
	if err := validateUser(userID); err != nil {
		return err
	}

	_, err := e.update(ctx, userID, func(rec models.ConsistencyRecord, found bool) (models.ConsistencyRecord, bool, error) {
		if !found {
			return rec, false, apperrors.NotFoundf("consistency record for %s", userID)
		}
		return streak.Reset(rec), rec.CurrentStreak != 0, nil
	})
	if err == nil {
		logger.Info("streak reset", "user", userID)
	}
	return err
}

// StreakStatus reports whether userID's streak is still alive as of now.
func (e *Engine) StreakStatus(ctx context.Context, userID string, now time.Time) (streak.Status, error) {
	if err := validateUser(userID); err != nil {
		return streak.Status{}, err
	}
	rec, err := e.getRecord(ctx, userID)
	if err != nil {
		return streak.Status{}, err
	}
	return streak.StatusOf(rec, now, e.loc), nil
}

// StreakCalendar returns the last days calendar days ending at now.
func (e *Engine) StreakCalendar(ctx context.Context, userID string, now time.Time, days int) ([]streak.Day, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, apperrors.Invalid("calendar days must be positive, got %d", days)
	}

	from, to := utils.TrailingDays(now, days, 0, e.loc)
	events, err := e.queryEvents(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return streak.Calendar(events, now, days, e.loc), nil
}

// MilestoneOverview describes userID's standing against every milestone.
func (e *Engine) MilestoneOverview(ctx context.Context, userID string) (models.MilestoneOverview, error) {
	if err := validateUser(userID); err != nil {
		return models.MilestoneOverview{}, err
	}
	rec, err := e.getRecord(ctx, userID)
	if err != nil {
		return models.MilestoneOverview{}, err
	}
	return milestone.Overview(rec), nil
}

// Record returns userID's consistency record.
func (e *Engine) Record(ctx context.Context, userID string) (models.ConsistencyRecord, error) {
	if err := validateUser(userID); err != nil {
		return models.ConsistencyRecord{}, err
	}
	return e.getRecord(ctx, userID)
}

// RecentReflections returns up to n of userID's latest events, newest first.
func (e *Engine) RecentReflections(ctx context.Context, userID string, n int) ([]models.ReflectionEvent, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, apperrors.Invalid("reflection count must be positive, got %d", n)
	}
	var events []models.ReflectionEvent
	err := e.withTimeout(ctx, "recent events", func(ctx context.Context) error {
		var err error
		events, err = e.events.RecentEvents(ctx, userID, n)
		return err
	})
	return events, err
}

// ReflectedToday reports whether userID has a reflection on now's calendar day.
func (e *Engine) ReflectedToday(ctx context.Context, userID string, now time.Time) (bool, error) {
	if err := validateUser(userID); err != nil {
		return false, err
	}
	from, to := utils.TrailingDays(now, 1, 0, e.loc)
	n, err := e.countEvents(ctx, userID, from, to)
	return n > 0, err
}
