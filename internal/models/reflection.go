package models

import "time"

// ReflectionEvent is one persisted reflection submission. Events are
// append-only; nothing in the engine mutates them after insert.
type ReflectionEvent struct {
	ID         string
	UserID     string
	OccurredAt time.Time
	WordCount  int
	// MoodScore is nil when the mood was absent or outside 1..100.
	MoodScore *int
	// StreakDay is the streak value this submission produced, or 0 when the
	// event was written without going through the engine.
	StreakDay int
	Text      string
}

// HasMood reports whether the event carries a usable mood score.
func (e ReflectionEvent) HasMood() bool {
	return e.MoodScore != nil
}

// DateRange is a half-open [From, To) time interval.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}
