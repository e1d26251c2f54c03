package storage

import (
	"context"
	"time"

	"github.com/julianstephens/reflekt/internal/models"
)

// EventStore is the append-only reflection log.
type EventStore interface {
	InsertEvent(ctx context.Context, event models.ReflectionEvent) error
	// QueryEvents returns the user's events with OccurredAt in [from, to),
	// oldest first.
	QueryEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ReflectionEvent, error)
	CountEvents(ctx context.Context, userID string, from, to time.Time) (int, error)
	// RecentEvents returns up to n events, newest first.
	RecentEvents(ctx context.Context, userID string, n int) ([]models.ReflectionEvent, error)
}

// RecordStore holds one ConsistencyRecord per user.
type RecordStore interface {
	// GetConsistencyRecord returns errors.ErrNotFound for an unknown user.
	GetConsistencyRecord(ctx context.Context, userID string) (models.ConsistencyRecord, error)
	// UpsertConsistencyRecord writes rec if the stored version equals
	// expectedVersion (0 means the record must not exist yet). On success the
	// stored version becomes expectedVersion+1 and is returned. A mismatch
	// returns errors.ErrConflict.
	UpsertConsistencyRecord(ctx context.Context, rec models.ConsistencyRecord, expectedVersion int64) (int64, error)
}

// Provider is a complete backend with lifecycle management.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	EventStore
	RecordStore

	// Utils
	GetConfigPath() string
}
