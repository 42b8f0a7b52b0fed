// Package content owns the activity catalog: which quiz activities exist,
// which lesson each one completes, and the question banks behind them.
package content

import (
	"context"

	"cellquest-service/internal/domain"
)

// Loader fetches activity content from a backing store.
type Loader interface {
	LoadActivity(ctx context.Context, activityID string) (domain.Activity, error)
}

// StaticLoader serves activities from an in-memory map (seed data, tests).
type StaticLoader struct {
	activities map[string]domain.Activity
}

func NewStaticLoader(activities map[string]domain.Activity) *StaticLoader {
	return &StaticLoader{activities: activities}
}

func (l *StaticLoader) LoadActivity(_ context.Context, activityID string) (domain.Activity, error) {
	if a, ok := l.activities[activityID]; ok {
		return a, nil
	}
	return domain.Activity{}, domain.ErrActivityNotFound
}
