package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cellquest-service/internal/app"
	"cellquest-service/internal/content"
	"cellquest-service/internal/domain"
	"cellquest-service/internal/store"
	"cellquest-service/internal/store/memstore"
)

func newProgressFixture(t *testing.T) (*app.ProgressService, *memstore.Store, domain.SessionContext) {
	t.Helper()
	st := memstore.New()
	accounts := app.NewAccountService(st, nil)
	sc, err := accounts.Register(context.Background(), "Ana", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	catalog := content.NewStaticLoader(content.SeedActivities())
	return app.NewProgressService(st, staticCatalog{catalog}, nil), st, sc
}

// staticCatalog adapts a Loader to the ActivityRepository interface.
type staticCatalog struct{ loader content.Loader }

func (c staticCatalog) Activity(ctx context.Context, id string) (domain.Activity, error) {
	return c.loader.LoadActivity(ctx, id)
}

func TestRecordCompletionWritesAllPaths(t *testing.T) {
	ctx := context.Background()
	progress, st, sc := newProgressFixture(t)

	if err := progress.RecordCompletion(ctx, sc, "activity1", 8, 10); err != nil {
		t.Fatalf("record: %v", err)
	}

	var rec domain.CompletionRecord
	if err := st.Get(ctx, "users/Ana/completedLessons/lesson1", &rec); err != nil {
		t.Fatalf("completion record: %v", err)
	}
	want := domain.CompletionRecord{Completed: true, Unlocked: true, Score: 8, Total: 10}
	if rec != want {
		t.Fatalf("completion mismatch: wrote for %+v, read %+v", want, rec)
	}

	var next domain.CompletionRecord
	if err := st.Get(ctx, "users/Ana/completedLessons/lesson2", &next); err != nil {
		t.Fatalf("next lesson record: %v", err)
	}
	if !next.Unlocked || next.Completed {
		t.Fatalf("expected unlock-only next record, got %+v", next)
	}

	var result domain.QuizResult
	if err := st.Get(ctx, "users/Ana/quizResults/activity1", &result); err != nil {
		t.Fatalf("quiz result: %v", err)
	}
	if result.Score != 8 || result.Total != 10 {
		t.Fatalf("result mismatch: %+v", result)
	}

	var user domain.User
	if err := st.Get(ctx, "users/Ana", &user); err != nil {
		t.Fatalf("user: %v", err)
	}
	if user.TotalPoints != 8 {
		t.Fatalf("expected totalPoints 8, got %d", user.TotalPoints)
	}

	docs, _ := st.List(ctx, "leaderboard")
	if len(docs) != 1 {
		t.Fatalf("expected 1 leaderboard record, got %d", len(docs))
	}
}

func TestRecordCompletionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	progress, st, sc := newProgressFixture(t)

	if err := progress.RecordCompletion(ctx, sc, "activity1", 8, 10); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := progress.RecordCompletion(ctx, sc, "activity1", 8, 10); err != nil {
		t.Fatalf("second record: %v", err)
	}

	var user domain.User
	_ = st.Get(ctx, "users/Ana", &user)
	if user.TotalPoints != 8 {
		t.Fatalf("repeat completion double-counted: %d", user.TotalPoints)
	}

	// A retake with a different score replaces, not accumulates.
	if err := progress.RecordCompletion(ctx, sc, "activity1", 10, 10); err != nil {
		t.Fatalf("retake: %v", err)
	}
	_ = st.Get(ctx, "users/Ana", &user)
	if user.TotalPoints != 10 {
		t.Fatalf("expected retake to replace score, got %d", user.TotalPoints)
	}
}

func TestRecordCompletionUnknownActivity(t *testing.T) {
	progress, _, sc := newProgressFixture(t)
	err := progress.RecordCompletion(context.Background(), sc, "activity999", 1, 1)
	if !errors.Is(err, domain.ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestRecordCompletionRequiresIdentity(t *testing.T) {
	progress, _, _ := newProgressFixture(t)
	err := progress.RecordCompletion(context.Background(), domain.SessionContext{}, "activity1", 1, 1)
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestUnlockChain(t *testing.T) {
	ctx := context.Background()
	progress, _, sc := newProgressFixture(t)

	// First lesson is implicitly unlocked, the rest are locked.
	unlocked, err := progress.Unlocked(ctx, sc, "lesson1")
	if err != nil || !unlocked {
		t.Fatalf("lesson1 must start unlocked, got %v err=%v", unlocked, err)
	}
	unlocked, _ = progress.Unlocked(ctx, sc, "lesson2")
	if unlocked {
		t.Fatalf("lesson2 must start locked")
	}

	if err := progress.RecordCompletion(ctx, sc, "activity1", 6, 10); err != nil {
		t.Fatalf("record: %v", err)
	}
	unlocked, _ = progress.Unlocked(ctx, sc, "lesson2")
	if !unlocked {
		t.Fatalf("completing lesson1 must unlock lesson2")
	}
}

// failingStore fails Update a configurable number of times before
// delegating, to exercise the retry path.
type failingStore struct {
	store.Store
	failures int
	calls    int
}

func (f *failingStore) Update(ctx context.Context, writes []store.Write) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("transient store failure")
	}
	return f.Store.Update(ctx, writes)
}

func TestRecordCompletionRetriesOnce(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	accounts := app.NewAccountService(st, nil)
	sc, _ := accounts.Register(ctx, "Ana", "")
	flaky := &failingStore{Store: st, failures: 1}
	progress := app.NewProgressService(flaky, staticCatalog{content.NewStaticLoader(content.SeedActivities())}, nil)

	if err := progress.RecordCompletion(ctx, sc, "activity1", 4, 10); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if flaky.calls != 2 {
		t.Fatalf("expected 2 update attempts, got %d", flaky.calls)
	}

	// Persistent failure surfaces as a retryable error.
	flaky2 := &failingStore{Store: st, failures: 10}
	progress2 := app.NewProgressService(flaky2, staticCatalog{content.NewStaticLoader(content.SeedActivities())}, nil)
	err := progress2.RecordCompletion(ctx, sc, "activity1", 4, 10)
	if err == nil || !strings.Contains(err.Error(), "retry later") {
		t.Fatalf("expected surfaced retryable failure, got %v", err)
	}
}
