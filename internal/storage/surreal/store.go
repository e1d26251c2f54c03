// Package surreal stores reflections and consistency records in SurrealDB.
//
// Records live in two SCHEMALESS tables keyed by deterministic ids so the
// compare-and-swap upsert can address a user's record directly:
//
//	consistency_record:⟨user id⟩
//	reflection_event:⟨event uuid⟩
package surreal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"

	"github.com/julianstephens/reflekt/internal/config"
	apperrors "github.com/julianstephens/reflekt/internal/errors"
	"github.com/julianstephens/reflekt/internal/logger"
)

const (
	eventTable  = "reflection_event"
	recordTable = "consistency_record"

	connectTimeout = 10 * time.Second
)

var (
	// ErrNotConnected is returned when a query runs before Init or Load.
	ErrNotConnected = errors.New("surrealdb connection not established")
)

const schema = `
DEFINE TABLE IF NOT EXISTS reflection_event SCHEMALESS;
DEFINE INDEX IF NOT EXISTS reflection_event_user_time ON reflection_event FIELDS user_id, occurred_unix;
DEFINE TABLE IF NOT EXISTS consistency_record SCHEMALESS;
`

type Store struct {
	cfg config.SurrealConfig
	db  *surrealdb.DB
}

func New(cfg config.SurrealConfig) *Store {
	return &Store{cfg: cfg}
}

// Init connects and defines the tables and indexes.
func (s *Store) Init() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		return err
	}
	if _, err := s.query(ctx, schema, nil); err != nil {
		return fmt.Errorf("failed to define schema: %w", err)
	}
	logger.Info("SurrealDB schema ready", "namespace", s.cfg.Namespace, "database", s.cfg.Database)
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.connect(ctx)
}

func (s *Store) connect(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	db, err := surrealdb.FromEndpointURLString(ctx, s.cfg.Endpoint())
	if err != nil {
		return apperrors.Unavailable("connect", err)
	}

	if _, err = db.SignIn(ctx, &surrealdb.Auth{
		Username: s.cfg.User,
		Password: s.cfg.Password,
	}); err != nil {
		_ = db.Close(ctx)
		return apperrors.Unavailable("signin", err)
	}

	if err := db.Use(ctx, s.cfg.Namespace, s.cfg.Database); err != nil {
		_ = db.Close(ctx)
		return apperrors.Unavailable("use", err)
	}

	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close(context.Background())
		s.db = nil
		return err
	}
	return nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConnected
	}
	if _, err := s.db.Version(ctx); err != nil {
		return apperrors.Unavailable("ping", err)
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return fmt.Sprintf("surrealdb %s/%s", s.cfg.Namespace, s.cfg.Database)
}

// query runs a statement batch and returns the result rows of the last
// statement.
func (s *Store) query(ctx context.Context, q string, vars map[string]interface{}) ([]interface{}, error) {
	if s.db == nil {
		return nil, apperrors.Unavailable("query", ErrNotConnected)
	}

	results, err := surrealdb.Query[interface{}](ctx, s.db, q, vars)
	if err != nil {
		if isAlreadyExists(err) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
		}
		return nil, apperrors.Unavailable("query", err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	for _, r := range *results {
		if r.Status != "OK" {
			msg := "query failed"
			if r.Error != nil {
				msg = r.Error.Message
			}
			if isAlreadyExists(errors.New(msg)) {
				return nil, fmt.Errorf("%w: %s", apperrors.ErrConflict, msg)
			}
			return nil, apperrors.Unavailable("query", errors.New(msg))
		}
	}

	last := (*results)[len(*results)-1]
	return asRows(last.Result), nil
}
