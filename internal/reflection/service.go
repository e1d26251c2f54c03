package reflection

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/reflekt/internal/engine"
	"github.com/julianstephens/reflekt/internal/logger"
	"github.com/julianstephens/reflekt/internal/models"
)

// Submission is one reflection as received from a front end.
type Submission struct {
	UserID string
	Text   string
	// Analysis is optional feedback text that may carry a mood score.
	Analysis string
	// At defaults to the engine clock.
	At time.Time
}

// Result is what the front end needs to respond to a submission.
type Result struct {
	engine.SubmitResult
	// Analysis is the feedback with the mood label stripped.
	Analysis string
}

type Service struct {
	engine *engine.Engine
}

func NewService(e *engine.Engine) *Service {
	return &Service{engine: e}
}

// Submit validates the text, builds the event and records it.
func (s *Service) Submit(ctx context.Context, sub Submission) (Result, error) {
	text, err := Validate(sub.Text)
	if err != nil {
		return Result{}, err
	}

	at := sub.At
	if at.IsZero() {
		at = s.engine.Now()
	}

	mood, analysis := ParseMoodScore(sub.Analysis)
	if sub.Analysis != "" && mood == nil {
		logger.Warn("no usable mood score in analysis", "user", sub.UserID)
	}

	res, err := s.engine.Submit(ctx, models.ReflectionEvent{
		ID:         uuid.NewString(),
		UserID:     sub.UserID,
		OccurredAt: at,
		WordCount:  WordCount(text),
		MoodScore:  mood,
		Text:       text,
	})
	if err != nil {
		return Result{}, err
	}
	return Result{SubmitResult: res, Analysis: analysis}, nil
}

// History returns the user's last n reflections, newest first. n must be
// positive.
func (s *Service) History(ctx context.Context, userID string, n int) ([]models.ReflectionEvent, error) {
	return s.engine.RecentReflections(ctx, userID, n)
}
