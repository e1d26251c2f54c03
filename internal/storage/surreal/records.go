package surreal

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/julianstephens/reflekt/internal/constants"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
	domain "github.com/julianstephens/reflekt/internal/models"
)

func (s *Store) GetConsistencyRecord(ctx context.Context, userID string) (domain.ConsistencyRecord, error) {
	rows, err := s.query(ctx, `SELECT * FROM type::thing($tb, $user_id)`, map[string]interface{}{
		"tb":      recordTable,
		"user_id": userID,
	})
	if err != nil {
		return domain.ConsistencyRecord{}, err
	}
	if len(rows) == 0 {
		return domain.ConsistencyRecord{}, fmt.Errorf("%w: consistency record for %s", apperrors.ErrNotFound, userID)
	}

	m, ok := asMap(rows[0])
	if !ok {
		return domain.ConsistencyRecord{}, fmt.Errorf("unexpected consistency record format %T", rows[0])
	}
	return parseRecord(userID, m)
}

func (s *Store) UpsertConsistencyRecord(ctx context.Context, rec domain.ConsistencyRecord, expectedVersion int64) (int64, error) {
	var lastActive interface{}
	if rec.LastActiveDate != nil {
		lastActive = rec.LastActiveDate.Format(constants.DateFormat)
	}
	milestones := map[string]interface{}{}
	for id, ok := range rec.UnlockedMilestones {
		if ok {
			milestones[id] = true
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)

	vars := map[string]interface{}{
		"tb":               recordTable,
		"user_id":          rec.UserID,
		"current_streak":   rec.CurrentStreak,
		"longest_streak":   rec.LongestStreak,
		"last_active_date": lastActive,
		"milestones":       milestones,
		"now":              now,
		"expected":         expectedVersion,
	}

	var query string
	if expectedVersion == 0 {
		// CREATE fails with "already exists" when another writer got there first
		query = `
			CREATE type::thing($tb, $user_id) CONTENT {
				user_id: $user_id,
				current_streak: $current_streak,
				longest_streak: $longest_streak,
				last_active_date: $last_active_date,
				unlocked_milestones: $milestones,
				version: 1,
				created_at: $now,
				updated_at: $now
			}
		`
	} else {
		query = `
			UPDATE type::thing($tb, $user_id) SET
				current_streak = $current_streak,
				longest_streak = $longest_streak,
				last_active_date = $last_active_date,
				unlocked_milestones = $milestones,
				version = version + 1,
				updated_at = $now
			WHERE version = $expected
			RETURN AFTER
		`
	}

	rows, err := s.query(ctx, query, vars)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: record for %s changed since version %d", apperrors.ErrConflict, rec.UserID, expectedVersion)
	}
	return expectedVersion + 1, nil
}

func parseRecord(userID string, m map[string]interface{}) (domain.ConsistencyRecord, error) {
	rec := domain.ConsistencyRecord{
		UserID:             userID,
		CurrentStreak:      getInt(m, "current_streak"),
		LongestStreak:      getInt(m, "longest_streak"),
		UnlockedMilestones: getBoolMap(m, "unlocked_milestones"),
		CreatedAt:          getTime(m, "created_at"),
		UpdatedAt:          getTime(m, "updated_at"),
	}
	if v, ok := toInt64(m["version"]); ok {
		rec.Version = v
	}
	if raw := getString(m, "last_active_date"); raw != "" {
		d, err := time.Parse(constants.DateFormat, raw)
		if err != nil {
			return domain.ConsistencyRecord{}, fmt.Errorf("parsing last_active_date: %w", err)
		}
		rec.LastActiveDate = &d
	}
	return rec, nil
}

// recordKey returns the id part of a SurrealDB record id
func recordKey(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case models.RecordID:
		return fmt.Sprint(v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprint(v.ID)
		}
	}
	return ""
}
