package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cellquest-service/internal/domain"
	"cellquest-service/internal/quiz"
)

// QuizService starts quiz sessions and wires their completion into the
// progress pipeline.
type QuizService struct {
	catalog  ActivityRepository
	progress *ProgressService
	log      *zap.Logger
	dwell    quiz.Dwell
}

func NewQuizService(catalog ActivityRepository, progress *ProgressService, dwell quiz.Dwell, log *zap.Logger) *QuizService {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuizService{catalog: catalog, progress: progress, log: log, dwell: dwell}
}

// Start builds a session for the given activity. When the session reaches
// the finished phase the result is recorded through ProgressService and
// then handed to onResult together with any write error, so transports can
// surface a retryable failure instead of swallowing it.
func (s *QuizService) Start(ctx context.Context, sc domain.SessionContext, activityID string, onResult func(quiz.Result, error)) (*quiz.Session, error) {
	if sc.Username == "" {
		return nil, domain.ErrNotAuthenticated
	}
	activity, err := s.catalog.Activity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	// Catalog data is not schema-checked on the way in; an activity without
	// questions is invalid content, not a runnable quiz.
	if len(activity.Questions) == 0 {
		return nil, fmt.Errorf("%w: activity %q has no questions", domain.ErrActivityNotFound, activityID)
	}

	session := quiz.NewSession(activity,
		quiz.WithDwell(s.dwell),
		quiz.WithOnFinish(func(res quiz.Result) {
			err := s.progress.RecordCompletion(ctx, sc, activityID, res.Score, res.Total)
			if onResult != nil {
				onResult(res, err)
			}
		}),
	)
	s.log.Info("quiz session started",
		zap.String("username", sc.Username),
		zap.String("activity", activityID),
		zap.Int("questions", len(activity.Questions)))
	return session, nil
}
