// Package streak implements the daily streak transition and the read-only
// views derived from a consistency record.
package streak

import (
	"time"

	"github.com/julianstephens/reflekt/internal/constants"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/utils"
)

// AllowedMissedDays is the forgiveness budget for a streak of length cur:
// one missed day per full week, never less than one.
func AllowedMissedDays(cur int) int {
	return max(1, cur/constants.ForgivenessDivisor)
}

// Advance applies one day of activity at now to rec and returns the updated
// record together with the transition summary. rec is not modified.
//
// Gaps are counted in calendar days of loc. A now that falls before the last
// active date is treated as same-day activity so LastActiveDate never moves
// backwards.
func Advance(rec models.ConsistencyRecord, now time.Time, loc *time.Location) (models.ConsistencyRecord, models.StreakUpdate) {
	next := rec.Clone()
	today := utils.DateIn(now, loc)
	maintained := true

	if rec.LastActiveDate == nil {
		next.CurrentStreak = 1
		next.LastActiveDate = &today
	} else {
		gap := utils.DaysBetweenDates(*rec.LastActiveDate, today)
		switch {
		case gap <= 0:
			// already counted
		case gap == 1:
			next.CurrentStreak = rec.CurrentStreak + 1
		case gap <= constants.ForgivenessMaxGap:
			if gap <= AllowedMissedDays(rec.CurrentStreak) {
				next.CurrentStreak = max(1, rec.CurrentStreak-1)
			} else {
				next.CurrentStreak = 1
				maintained = false
			}
		default:
			next.CurrentStreak = 1
			maintained = false
		}
		if gap > 0 {
			next.LastActiveDate = &today
		}
	}

	next.LongestStreak = max(next.LongestStreak, next.CurrentStreak)

	return next, models.StreakUpdate{
		CurrentStreak:    next.CurrentStreak,
		LongestStreak:    next.LongestStreak,
		LastActiveDate:   *next.LastActiveDate,
		StreakMaintained: maintained,
	}
}

// Reset zeroes the current streak. Longest streak, last active date and
// milestones are kept.
func Reset(rec models.ConsistencyRecord) models.ConsistencyRecord {
	next := rec.Clone()
	next.CurrentStreak = 0
	return next
}

// Status describes how a streak stands as of a given day.
type Status struct {
	CurrentStreak   int
	LongestStreak   int
	LastActiveDate  *time.Time
	DaysSinceActive int
	// Maintained is true when the user was active today or yesterday.
	Maintained bool
	// AtRisk is true when the streak is maintained but today has no
	// reflection yet.
	AtRisk bool
	// CanRecover is true when a reflection today would be forgiven.
	CanRecover bool
}

// StatusOf reports the streak standing of rec as of now.
func StatusOf(rec models.ConsistencyRecord, now time.Time, loc *time.Location) Status {
	s := Status{
		CurrentStreak:  rec.CurrentStreak,
		LongestStreak:  rec.LongestStreak,
		LastActiveDate: rec.LastActiveDate,
	}
	if rec.LastActiveDate == nil {
		return s
	}

	days := max(0, utils.DaysBetweenDates(*rec.LastActiveDate, utils.DateIn(now, loc)))
	s.DaysSinceActive = days
	s.Maintained = days <= 1
	s.AtRisk = days == 1 && rec.CurrentStreak > 0
	s.CanRecover = days > 0 && days <= AllowedMissedDays(rec.CurrentStreak)
	return s
}
