package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cellquest-service/internal/domain"
	"cellquest-service/internal/store"
)

// ActivityRepository resolves activity content, typically a content
// repository with a cache in front.
type ActivityRepository interface {
	Activity(ctx context.Context, activityID string) (domain.Activity, error)
}

// firstLessonID is implicitly unlocked for every user.
const firstLessonID = "lesson1"

// ProgressService records quiz outcomes: the durable result, the lesson
// completion record, the next lesson's unlock flag, the leaderboard entry,
// and the user's running point total, all in one store update.
type ProgressService struct {
	store   store.Store
	catalog ActivityRepository
	log     *zap.Logger
	now     func() time.Time

	// One retry with a short pause before a write failure surfaces to the
	// caller as retryable.
	retryWait time.Duration
}

func NewProgressService(st store.Store, catalog ActivityRepository, log *zap.Logger) *ProgressService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProgressService{
		store:     st,
		catalog:   catalog,
		log:       log,
		now:       time.Now,
		retryWait: 500 * time.Millisecond,
	}
}

func completionPath(username, lessonID string) string {
	return store.Join("users", username, "completedLessons", lessonID)
}

func resultPath(username, activityID string) string {
	return store.Join("users", username, "quizResults", activityID)
}

func leaderboardPath(username, activityID string) string {
	return store.Join("leaderboard", username, activityID)
}

// RecordCompletion persists the outcome of a finished activity. Calling it
// again for the same (user, activity) rewrites the same documents and
// adjusts the point total by the score delta, so completions never
// double-count.
func (s *ProgressService) RecordCompletion(ctx context.Context, sc domain.SessionContext, activityID string, score, total int) error {
	if sc.Username == "" {
		return domain.ErrNotAuthenticated
	}
	activity, err := s.catalog.Activity(ctx, activityID)
	if err != nil {
		return err
	}

	var user domain.User
	if err := s.store.Get(ctx, userPath(sc.Username), &user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}

	// Previous score for the same lesson feeds the idempotence delta.
	prevScore := 0
	var prev domain.CompletionRecord
	err = s.store.Get(ctx, completionPath(sc.Username, activity.LessonID), &prev)
	switch {
	case err == nil:
		if prev.Completed {
			prevScore = prev.Score
		}
	case errors.Is(err, store.ErrNotFound):
	default:
		return fmt.Errorf("load completion record: %w", err)
	}

	now := s.now()
	writes := []store.Write{
		{Path: resultPath(sc.Username, activityID), Value: domain.QuizResult{Score: score, Total: total, Timestamp: now}},
		{Path: completionPath(sc.Username, activity.LessonID), Value: domain.CompletionRecord{
			Completed: true,
			Unlocked:  true,
			Score:     score,
			Total:     total,
		}},
		{Path: leaderboardPath(sc.Username, activityID), Value: leaderboardRecord{
			Username:   sc.Username,
			Score:      score,
			ActivityID: activityID,
			Timestamp:  now,
		}},
		{Path: userPath(sc.Username), Value: map[string]any{
			"totalPoints": user.TotalPoints - prevScore + score,
		}, Merge: true},
	}
	if activity.NextLessonID != "" {
		writes = append(writes, store.Write{
			Path:  completionPath(sc.Username, activity.NextLessonID),
			Value: map[string]any{"unlocked": true},
			Merge: true,
		})
	}

	if err := s.updateWithRetry(ctx, writes); err != nil {
		s.log.Error("progress write failed",
			zap.String("username", sc.Username),
			zap.String("activity", activityID),
			zap.Error(err))
		return fmt.Errorf("save progress (retry later): %w", err)
	}
	s.log.Info("activity completed",
		zap.String("username", sc.Username),
		zap.String("activity", activityID),
		zap.Int("score", score),
		zap.Int("total", total))
	return nil
}

func (s *ProgressService) updateWithRetry(ctx context.Context, writes []store.Write) error {
	err := s.store.Update(ctx, writes)
	if err == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return err
	case <-time.After(s.retryWait):
	}
	return s.store.Update(ctx, writes)
}

// Completion returns the stored record for one lesson.
func (s *ProgressService) Completion(ctx context.Context, sc domain.SessionContext, lessonID string) (domain.CompletionRecord, error) {
	if sc.Username == "" {
		return domain.CompletionRecord{}, domain.ErrNotAuthenticated
	}
	var rec domain.CompletionRecord
	err := s.store.Get(ctx, completionPath(sc.Username, lessonID), &rec)
	if errors.Is(err, store.ErrNotFound) {
		return domain.CompletionRecord{Unlocked: lessonID == firstLessonID}, nil
	}
	if err != nil {
		return domain.CompletionRecord{}, fmt.Errorf("load completion record: %w", err)
	}
	if lessonID == firstLessonID {
		rec.Unlocked = true
	}
	return rec, nil
}

// Unlocked reports whether the user may enter the lesson. The first lesson
// is always reachable.
func (s *ProgressService) Unlocked(ctx context.Context, sc domain.SessionContext, lessonID string) (bool, error) {
	rec, err := s.Completion(ctx, sc, lessonID)
	if err != nil {
		return false, err
	}
	return rec.Unlocked, nil
}

// leaderboardRecord is the nested-schema document written on completion.
type leaderboardRecord struct {
	Username   string    `json:"username"`
	Score      int       `json:"score"`
	ActivityID string    `json:"activityID"`
	Timestamp  time.Time `json:"timestamp"`
}
