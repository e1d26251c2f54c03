package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/reflekt/internal/constants"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/storage"
)

func (s *Store) GetConsistencyRecord(ctx context.Context, userID string) (models.ConsistencyRecord, error) {
	var (
		rec        models.ConsistencyRecord
		lastActive sql.NullString
		milestones string
		createdAt  string
		updatedAt  string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, current_streak, longest_streak, last_active_date, unlocked_milestones, version, created_at, updated_at
		FROM consistency_records WHERE user_id = ?`, userID,
	).Scan(&rec.UserID, &rec.CurrentStreak, &rec.LongestStreak, &lastActive, &milestones, &rec.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ConsistencyRecord{}, fmt.Errorf("%w: consistency record for %s", apperrors.ErrNotFound, userID)
		}
		return models.ConsistencyRecord{}, apperrors.Unavailable("get record", err)
	}

	if lastActive.Valid {
		d, err := time.Parse(constants.DateFormat, lastActive.String)
		if err != nil {
			return models.ConsistencyRecord{}, fmt.Errorf("parsing last_active_date: %w", err)
		}
		rec.LastActiveDate = &d
	}
	if rec.UnlockedMilestones, err = storage.DecodeMilestones(milestones); err != nil {
		return models.ConsistencyRecord{}, err
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return models.ConsistencyRecord{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return models.ConsistencyRecord{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return rec, nil
}

func (s *Store) UpsertConsistencyRecord(ctx context.Context, rec models.ConsistencyRecord, expectedVersion int64) (int64, error) {
	milestones, err := storage.EncodeMilestones(rec.UnlockedMilestones)
	if err != nil {
		return 0, err
	}

	var lastActive sql.NullString
	if rec.LastActiveDate != nil {
		lastActive = sql.NullString{String: rec.LastActiveDate.Format(constants.DateFormat), Valid: true}
	}
	now := time.Now().UTC().Format(time.RFC3339)

	var res sql.Result
	if expectedVersion == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO consistency_records
				(user_id, current_streak, longest_streak, last_active_date, unlocked_milestones, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 1, ?, ?)
			ON CONFLICT(user_id) DO NOTHING`,
			rec.UserID, rec.CurrentStreak, rec.LongestStreak, lastActive, milestones, now, now,
		)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE consistency_records
			SET current_streak = ?, longest_streak = ?, last_active_date = ?, unlocked_milestones = ?,
				version = version + 1, updated_at = ?
			WHERE user_id = ? AND version = ?`,
			rec.CurrentStreak, rec.LongestStreak, lastActive, milestones, now,
			rec.UserID, expectedVersion,
		)
	}
	if err != nil {
		return 0, apperrors.Unavailable("upsert record", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Unavailable("upsert record", err)
	}
	if rowsAffected == 0 {
		return 0, fmt.Errorf("%w: record for %s changed since version %d", apperrors.ErrConflict, rec.UserID, expectedVersion)
	}
	return expectedVersion + 1, nil
}
