package models

import "time"

// ConsistencyRecord is the per-user streak state. UnlockedMilestones only
// ever grows.
type ConsistencyRecord struct {
	UserID             string
	CurrentStreak      int
	LongestStreak      int
	LastActiveDate     *time.Time
	UnlockedMilestones map[string]bool
	// Version is bumped on every successful write and used for
	// compare-and-swap upserts.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewConsistencyRecord returns the all-zero record for a newly known user.
func NewConsistencyRecord(userID string) ConsistencyRecord {
	return ConsistencyRecord{
		UserID:             userID,
		UnlockedMilestones: map[string]bool{},
	}
}

// HasMilestone reports whether the milestone id is already unlocked.
func (r ConsistencyRecord) HasMilestone(id string) bool {
	return r.UnlockedMilestones[id]
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (r ConsistencyRecord) Clone() ConsistencyRecord {
	out := r
	out.UnlockedMilestones = make(map[string]bool, len(r.UnlockedMilestones))
	for k, v := range r.UnlockedMilestones {
		out.UnlockedMilestones[k] = v
	}
	if r.LastActiveDate != nil {
		d := *r.LastActiveDate
		out.LastActiveDate = &d
	}
	return out
}

// StreakUpdate is the result of recording activity for a user.
type StreakUpdate struct {
	CurrentStreak    int
	LongestStreak    int
	LastActiveDate   time.Time
	StreakMaintained bool
}
