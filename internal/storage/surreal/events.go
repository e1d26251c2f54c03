package surreal

import (
	"context"
	"time"

	"github.com/julianstephens/reflekt/internal/models"
)

func (s *Store) InsertEvent(ctx context.Context, e models.ReflectionEvent) error {
	query := `
		CREATE type::thing($tb, $id) CONTENT {
			user_id: $user_id,
			occurred_at: $occurred_at,
			occurred_unix: $occurred_unix,
			word_count: $word_count,
			mood_score: $mood_score,
			streak_day: $streak_day,
			text: $text
		}
	`
	var mood interface{}
	if e.MoodScore != nil {
		mood = *e.MoodScore
	}
	vars := map[string]interface{}{
		"tb":            eventTable,
		"id":            e.ID,
		"user_id":       e.UserID,
		"occurred_at":   e.OccurredAt.UTC().Format(time.RFC3339Nano),
		"occurred_unix": e.OccurredAt.UnixNano(),
		"word_count":    e.WordCount,
		"mood_score":    mood,
		"streak_day":    e.StreakDay,
		"text":          e.Text,
	}

	_, err := s.query(ctx, query, vars)
	return err
}

func (s *Store) QueryEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ReflectionEvent, error) {
	query := `
		SELECT * FROM reflection_event
		WHERE user_id = $user_id AND occurred_unix >= $from AND occurred_unix < $to
		ORDER BY occurred_unix ASC
	`
	rows, err := s.query(ctx, query, map[string]interface{}{
		"user_id": userID,
		"from":    from.UnixNano(),
		"to":      to.UnixNano(),
	})
	if err != nil {
		return nil, err
	}
	return parseEvents(rows), nil
}

func (s *Store) CountEvents(ctx context.Context, userID string, from, to time.Time) (int, error) {
	query := `
		SELECT count() AS count FROM reflection_event
		WHERE user_id = $user_id AND occurred_unix >= $from AND occurred_unix < $to
		GROUP ALL
	`
	rows, err := s.query(ctx, query, map[string]interface{}{
		"user_id": userID,
		"from":    from.UnixNano(),
		"to":      to.UnixNano(),
	})
	if err != nil {
		return 0, err
	}
	return extractCount(rows), nil
}

func (s *Store) RecentEvents(ctx context.Context, userID string, n int) ([]models.ReflectionEvent, error) {
	query := `
		SELECT * FROM reflection_event
		WHERE user_id = $user_id
		ORDER BY occurred_unix DESC
		LIMIT $limit
	`
	rows, err := s.query(ctx, query, map[string]interface{}{
		"user_id": userID,
		"limit":   n,
	})
	if err != nil {
		return nil, err
	}
	return parseEvents(rows), nil
}

func parseEvents(rows []interface{}) []models.ReflectionEvent {
	events := make([]models.ReflectionEvent, 0, len(rows))
	for _, row := range rows {
		m, ok := asMap(row)
		if !ok {
			continue
		}
		events = append(events, models.ReflectionEvent{
			ID:         recordKey(m["id"]),
			UserID:     getString(m, "user_id"),
			OccurredAt: getTime(m, "occurred_at"),
			WordCount:  getInt(m, "word_count"),
			MoodScore:  getIntPtr(m, "mood_score"),
			StreakDay:  getInt(m, "streak_day"),
			Text:       getString(m, "text"),
		})
	}
	return events
}
