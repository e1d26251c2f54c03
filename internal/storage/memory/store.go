// Package memory is an in-process backend used by tests and the
// --store memory mode. Nothing survives Close.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/models"
)

type Store struct {
	mu      sync.RWMutex
	events  map[string][]models.ReflectionEvent
	ids     map[string]struct{}
	records map[string]models.ConsistencyRecord
	now     func() time.Time
}

func New() *Store {
	return &Store{
		events:  map[string][]models.ReflectionEvent{},
		ids:     map[string]struct{}{},
		records: map[string]models.ConsistencyRecord{},
		now:     time.Now,
	}
}

func (s *Store) Init() error  { return nil }
func (s *Store) Load() error  { return nil }
func (s *Store) Close() error { return nil }

func (s *Store) GetConfigPath() string {
	return "memory"
}

func (s *Store) InsertEvent(ctx context.Context, event models.ReflectionEvent) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Unavailable("insert event", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.ids[event.ID]; dup {
		return fmt.Errorf("%w: event %s already exists", apperrors.ErrConflict, event.ID)
	}
	s.ids[event.ID] = struct{}{}

	list := append(s.events[event.UserID], copyEvent(event))
	// Keep chronological order even for backdated inserts
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].OccurredAt.Before(list[j].OccurredAt)
	})
	s.events[event.UserID] = list
	return nil
}

func (s *Store) QueryEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ReflectionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("query events", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r := models.DateRange{From: from, To: to}
	var out []models.ReflectionEvent
	for _, e := range s.events[userID] {
		if r.Contains(e.OccurredAt) {
			out = append(out, copyEvent(e))
		}
	}
	return out, nil
}

func (s *Store) CountEvents(ctx context.Context, userID string, from, to time.Time) (int, error) {
	events, err := s.QueryEvents(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}
	return len(events), nil
}

func (s *Store) RecentEvents(ctx context.Context, userID string, n int) ([]models.ReflectionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Unavailable("recent events", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.events[userID]
	out := make([]models.ReflectionEvent, 0, max(n, 0))
	for i := len(list) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, copyEvent(list[i]))
	}
	return out, nil
}

func (s *Store) GetConsistencyRecord(ctx context.Context, userID string) (models.ConsistencyRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.ConsistencyRecord{}, apperrors.Unavailable("get record", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return models.ConsistencyRecord{}, fmt.Errorf("%w: consistency record for %s", apperrors.ErrNotFound, userID)
	}
	return rec.Clone(), nil
}

func (s *Store) UpsertConsistencyRecord(ctx context.Context, rec models.ConsistencyRecord, expectedVersion int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.Unavailable("upsert record", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	existing, ok := s.records[rec.UserID]
	switch {
	case !ok && expectedVersion != 0:
		return 0, fmt.Errorf("%w: record for %s does not exist", apperrors.ErrConflict, rec.UserID)
	case ok && existing.Version != expectedVersion:
		return 0, fmt.Errorf("%w: record for %s is at version %d, expected %d", apperrors.ErrConflict, rec.UserID, existing.Version, expectedVersion)
	}

	stored := rec.Clone()
	stored.Version = expectedVersion + 1
	stored.UpdatedAt = now
	if ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	s.records[rec.UserID] = stored
	return stored.Version, nil
}

func copyEvent(e models.ReflectionEvent) models.ReflectionEvent {
	if e.MoodScore != nil {
		m := *e.MoodScore
		e.MoodScore = &m
	}
	return e
}
