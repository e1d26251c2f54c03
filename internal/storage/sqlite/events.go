package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/models"
)

const eventColumns = "id, user_id, occurred_at, word_count, mood_score, streak_day, text"

func (s *Store) InsertEvent(ctx context.Context, e models.ReflectionEvent) error {
	var mood sql.NullInt64
	if e.MoodScore != nil {
		mood = sql.NullInt64{Int64: int64(*e.MoodScore), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reflection_events (id, user_id, occurred_at, occurred_unix, word_count, mood_score, streak_day, text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.OccurredAt.UTC().Format(time.RFC3339Nano), e.OccurredAt.UnixNano(),
		e.WordCount, mood, e.StreakDay, e.Text,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: event %s already exists", apperrors.ErrConflict, e.ID)
		}
		return apperrors.Unavailable("insert event", err)
	}
	return nil
}

func (s *Store) QueryEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ReflectionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM reflection_events
		WHERE user_id = ? AND occurred_unix >= ? AND occurred_unix < ?
		ORDER BY occurred_unix ASC`,
		userID, from.UnixNano(), to.UnixNano(),
	)
	if err != nil {
		return nil, apperrors.Unavailable("query events", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *Store) CountEvents(ctx context.Context, userID string, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reflection_events
		WHERE user_id = ? AND occurred_unix >= ? AND occurred_unix < ?`,
		userID, from.UnixNano(), to.UnixNano(),
	).Scan(&n)
	if err != nil {
		return 0, apperrors.Unavailable("count events", err)
	}
	return n, nil
}

func (s *Store) RecentEvents(ctx context.Context, userID string, n int) ([]models.ReflectionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM reflection_events
		WHERE user_id = ?
		ORDER BY occurred_unix DESC
		LIMIT ?`,
		userID, n,
	)
	if err != nil {
		return nil, apperrors.Unavailable("recent events", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]models.ReflectionEvent, error) {
	var events []models.ReflectionEvent
	for rows.Next() {
		var (
			e          models.ReflectionEvent
			occurredAt string
			mood       sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &occurredAt, &e.WordCount, &mood, &e.StreakDay, &e.Text); err != nil {
			return nil, apperrors.Unavailable("scan event", err)
		}
		t, err := time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing occurred_at for event %s: %w", e.ID, err)
		}
		e.OccurredAt = t
		if mood.Valid {
			m := int(mood.Int64)
			e.MoodScore = &m
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable("iterate events", err)
	}
	return events, nil
}
