package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/models"
)

const eventColumns = "id, user_id, occurred_at, word_count, mood_score, streak_day, text"

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func (s *Store) InsertEvent(ctx context.Context, e models.ReflectionEvent) error {
	var mood sql.NullInt64
	if e.MoodScore != nil {
		mood = sql.NullInt64{Int64: int64(*e.MoodScore), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reflection_events (id, user_id, occurred_at, word_count, mood_score, streak_day, text)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.UserID, e.OccurredAt.UTC(), e.WordCount, mood, e.StreakDay, e.Text,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: event %s already exists", apperrors.ErrConflict, e.ID)
		}
		return apperrors.Unavailable("insert event", err)
	}
	return nil
}

func (s *Store) QueryEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ReflectionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM reflection_events
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		ORDER BY occurred_at ASC`,
		userID, from.UTC(), to.UTC(),
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
		WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3`,
		userID, from.UTC(), to.UTC(),
	).Scan(&n)
	if err != nil {
		return 0, apperrors.Unavailable("count events", err)
	}
	return n, nil
}

func (s *Store) RecentEvents(ctx context.Context, userID string, n int) ([]models.ReflectionEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+` FROM reflection_events
		WHERE user_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`,
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
			e    models.ReflectionEvent
			mood sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.OccurredAt, &e.WordCount, &mood, &e.StreakDay, &e.Text); err != nil {
			return nil, apperrors.Unavailable("scan event", err)
		}
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
