package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"cellquest-service/internal/domain"
)

func TestRepositoryCaches(t *testing.T) {
	loader := &countingLoader{Loader: NewStaticLoader(SeedActivities())}
	repo := NewRepository(loader, time.Minute)

	if _, err := repo.Activity(context.Background(), "activity1"); err != nil {
		t.Fatalf("activity: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.Activity(context.Background(), "activity1"); err != nil {
		t.Fatalf("activity 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestUnknownActivity(t *testing.T) {
	repo := NewRepository(NewStaticLoader(SeedActivities()), time.Minute)
	_, err := repo.Activity(context.Background(), "activity999")
	if !errors.Is(err, domain.ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestSeedLessonChain(t *testing.T) {
	seeds := SeedActivities()
	chain := []struct {
		id, lesson, next string
	}{
		{"activity1", "lesson1", "lesson2"},
		{"activity3", "lesson4", "lesson5"},
		{"activity4", "lesson5", "lesson6"},
		{"activity5", "lesson6", "lesson7"},
	}
	for _, want := range chain {
		a, ok := seeds[want.id]
		if !ok {
			t.Fatalf("missing %s", want.id)
		}
		if a.LessonID != want.lesson || a.NextLessonID != want.next {
			t.Fatalf("%s lesson chain %s -> %s, want %s -> %s", want.id, a.LessonID, a.NextLessonID, want.lesson, want.next)
		}
	}
	if got := seeds["activity1"].TotalPoints(); got != 10 {
		t.Fatalf("expected 5 questions x 2 points, got %d", got)
	}
	// The mixed-kind banks award one point per question.
	for _, id := range []string{"activity3", "activity4", "activity5"} {
		if got := seeds[id].TotalPoints(); got != 10 {
			t.Fatalf("%s: expected 10 one-point questions, got %d", id, got)
		}
	}
}

type countingLoader struct {
	Loader
	calls int
}

func (l *countingLoader) LoadActivity(ctx context.Context, activityID string) (domain.Activity, error) {
	l.calls++
	return l.Loader.LoadActivity(ctx, activityID)
}
