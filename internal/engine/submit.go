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

// SubmitResult is the outcome of recording one reflection.
type SubmitResult struct {
	Event    models.ReflectionEvent
	Streak   models.StreakUpdate
	Unlocked []models.MilestoneDefinition
	// Duplicate is true when the event id was already stored and the record
	// already counts its day. Nothing was written and Streak reflects the
	// stored record.
	Duplicate bool
}

// Submit persists event, records the activity it represents and unlocks any
// milestones the new streak reaches. The event's StreakDay is set to the
// streak value it produces.
//
// The whole sequence holds the user's lock, so duplicate deliveries of the
// same reflection cannot both advance the streak. Resubmitting an event that
// was stored while its record write failed completes the record update.
func (e *Engine) Submit(ctx context.Context, event models.ReflectionEvent) (SubmitResult, error) {
	if err := validateUser(event.UserID); err != nil {
		return SubmitResult{}, err
	}
	if event.ID == "" {
		return SubmitResult{}, apperrors.Invalid("event id is required")
	}

	res := SubmitResult{Event: event}
	inserted := false

	_, err := e.update(ctx, event.UserID, func(rec models.ConsistencyRecord, found bool) (models.ConsistencyRecord, bool, error) {
		next, upd := streak.Advance(rec, event.OccurredAt, e.loc)

		if !inserted {
			res.Event.StreakDay = upd.CurrentStreak
			err := e.withTimeout(ctx, "insert event", func(ctx context.Context) error {
				return e.events.InsertEvent(ctx, res.Event)
			})
			switch {
			case apperrors.Is(err, apperrors.ErrConflict):
				if counted(rec, event, e.loc) {
					res.Duplicate = true
					res.Streak = currentUpdate(rec)
					return rec, false, nil
				}
				// Stored by an earlier attempt whose record write failed.
				logger.Warn("reflection stored without its streak update, applying it now",
					"user", event.UserID, "event", event.ID)
			case err != nil:
				return rec, false, err
			}
			inserted = true
		}

		next, res.Unlocked = milestone.Unlock(next, upd.CurrentStreak)
		res.Streak = upd
		return next, true, nil
	})
	if err != nil {
		return SubmitResult{}, err
	}

	if res.Duplicate {
		logger.Warn("duplicate reflection ignored", "user", event.UserID, "event", event.ID)
		return res, nil
	}

	logger.Info("reflection submitted",
		"user", event.UserID,
		"streak", res.Streak.CurrentStreak,
		"maintained", res.Streak.StreakMaintained,
		"unlocked", len(res.Unlocked),
	)
	return res, nil
}

// counted reports whether rec already covers the calendar day of event.
func counted(rec models.ConsistencyRecord, event models.ReflectionEvent, loc *time.Location) bool {
	if rec.LastActiveDate == nil {
		return false
	}
	return utils.DaysBetweenDates(*rec.LastActiveDate, utils.DateIn(event.OccurredAt, loc)) <= 0
}

func currentUpdate(rec models.ConsistencyRecord) models.StreakUpdate {
	upd := models.StreakUpdate{
		CurrentStreak:    rec.CurrentStreak,
		LongestStreak:    rec.LongestStreak,
		StreakMaintained: true,
	}
	if rec.LastActiveDate != nil {
		upd.LastActiveDate = *rec.LastActiveDate
	}
	return upd
}
