// Package engine is the consistency and progress engine. It owns per-user
// serialization of record updates, store timeouts and conflict retries, and
// delegates the domain rules to the streak, milestone, progress and
// analytics packages.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/reflekt/internal/constants"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/logger"
	"github.com/julianstephens/reflekt/internal/models"
	"github.com/julianstephens/reflekt/internal/storage"
)

// Options tune an Engine. Zero values fall back to the defaults.
type Options struct {
	Location           *time.Location
	StoreTimeout       time.Duration
	MaxConflictRetries int
	// Now is the clock used by operations that take no explicit time.
	Now func() time.Time
}

type Engine struct {
	events  storage.EventStore
	records storage.RecordStore

	loc     *time.Location
	timeout time.Duration
	retries int
	now     func() time.Time

	locks *userLocks
}

// New creates an engine over the given stores.
func New(events storage.EventStore, records storage.RecordStore, opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = constants.DefaultStoreTimeout
	}
	if opts.MaxConflictRetries < 0 {
		opts.MaxConflictRetries = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Engine{
		events:  events,
		records: records,
		loc:     opts.Location,
		timeout: opts.StoreTimeout,
		retries: opts.MaxConflictRetries,
		now:     opts.Now,
		locks:   newUserLocks(),
	}
}

// Location is the timezone whose calendar days drive streak logic.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Now returns the engine clock in the engine timezone.
func (e *Engine) Now() time.Time {
	return e.now().In(e.loc)
}

func validateUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperrors.Invalid("user id is required")
	}
	return nil
}

// withTimeout runs one store call under the store timeout and normalizes
// its error into the engine taxonomy.
func (e *Engine) withTimeout(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	err := fn(ctx)
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, apperrors.ErrNotFound),
		apperrors.Is(err, apperrors.ErrConflict),
		apperrors.Is(err, apperrors.ErrInvalidInput),
		apperrors.Is(err, apperrors.ErrStoreUnavailable):
		return err
	case ctx.Err() != nil:
		return apperrors.Unavailable(op, ctx.Err())
	default:
		return apperrors.Unavailable(op, err)
	}
}

func (e *Engine) getRecord(ctx context.Context, userID string) (models.ConsistencyRecord, error) {
	var rec models.ConsistencyRecord
	err := e.withTimeout(ctx, "get consistency record", func(ctx context.Context) error {
		var err error
		rec, err = e.records.GetConsistencyRecord(ctx, userID)
		return err
	})
	return rec, err
}

func (e *Engine) queryEvents(ctx context.Context, userID string, from, to time.Time) ([]models.ReflectionEvent, error) {
	var events []models.ReflectionEvent
	err := e.withTimeout(ctx, "query events", func(ctx context.Context) error {
		var err error
		events, err = e.events.QueryEvents(ctx, userID, from, to)
		return err
	})
	return events, err
}

func (e *Engine) countEvents(ctx context.Context, userID string, from, to time.Time) (int, error) {
	var n int
	err := e.withTimeout(ctx, "count events", func(ctx context.Context) error {
		var err error
		n, err = e.events.CountEvents(ctx, userID, from, to)
		return err
	})
	return n, err
}

// mutation computes the next record from the current one. A false write
// leaves the stored record untouched.
type mutation func(rec models.ConsistencyRecord, found bool) (next models.ConsistencyRecord, write bool, err error)

// update runs apply under userID's lock as a compare-and-swap loop. On a
// version conflict the record is re-read and apply runs again, up to the
// configured number of retries.
func (e *Engine) update(ctx context.Context, userID string, apply mutation) (models.ConsistencyRecord, error) {
	release := e.locks.lock(userID)
	defer release()

	var lastErr error
	for attempt := 0; attempt <= e.retries; attempt++ {
		rec, err := e.getRecord(ctx, userID)
		found := err == nil
		switch {
		case apperrors.Is(err, apperrors.ErrNotFound):
			rec = models.NewConsistencyRecord(userID)
		case err != nil:
			return models.ConsistencyRecord{}, err
		}

		next, write, err := apply(rec, found)
		if err != nil || !write {
			return next, err
		}

		var version int64
		err = e.withTimeout(ctx, "upsert consistency record", func(ctx context.Context) error {
			var err error
			version, err = e.records.UpsertConsistencyRecord(ctx, next, rec.Version)
			return err
		})
		if err == nil {
			next.Version = version
			return next, nil
		}
		if !apperrors.Is(err, apperrors.ErrConflict) {
			return models.ConsistencyRecord{}, err
		}

		lastErr = err
		logger.Debug("consistency record conflict, retrying", "user", userID, "attempt", attempt+1)
	}

	return models.ConsistencyRecord{}, fmt.Errorf("giving up after %d attempts: %w", e.retries+1, lastErr)
}
