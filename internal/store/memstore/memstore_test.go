package memstore

import (
	"context"
	"testing"
	"time"

	"cellquest-service/internal/domain"
	"cellquest-service/internal/store"
)

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	rec := domain.CompletionRecord{Completed: true, Unlocked: true, Score: 8, Total: 10}
	if err := s.Set(ctx, "users/ana/completedLessons/lesson1", rec); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.CompletionRecord
	if err := s.Get(ctx, "users/ana/completedLessons/lesson1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != rec {
		t.Fatalf("round trip mismatch: wrote %+v, read %+v", rec, got)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := New()
	var out domain.User
	if err := s.Get(context.Background(), "users/nobody", &out); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.SetIfAbsent(ctx, "users/ana", domain.User{Username: "ana"})
	if err != nil || !created {
		t.Fatalf("expected create, got created=%v err=%v", created, err)
	}
	created, err = s.SetIfAbsent(ctx, "users/ana", domain.User{Username: "ana"})
	if err != nil || created {
		t.Fatalf("expected existing path to win, got created=%v err=%v", created, err)
	}
}

func TestUpdateMergePreservesFields(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Set(ctx, "users/ana/completedLessons/lesson2",
		domain.CompletionRecord{Completed: true, Score: 4, Total: 10}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := s.Update(ctx, []store.Write{
		{Path: "users/ana/completedLessons/lesson2", Value: map[string]any{"unlocked": true}, Merge: true},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	var got domain.CompletionRecord
	if err := s.Get(ctx, "users/ana/completedLessons/lesson2", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Unlocked || !got.Completed || got.Score != 4 {
		t.Fatalf("merge clobbered fields: %+v", got)
	}
}

func TestListFiltersByPathPrefix(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Set(ctx, "leaderboard/ana/activity1", domain.LeaderboardEntry{Username: "ana", Score: 8})
	_ = s.Set(ctx, "leaderboard/ben/activity1", domain.LeaderboardEntry{Username: "ben", Score: 4})
	_ = s.Set(ctx, "users/ana", domain.User{Username: "ana"})

	docs, err := s.List(ctx, "leaderboard")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 leaderboard docs, got %d", len(docs))
	}
	// "users/anabel" must not match prefix "users/ana".
	_ = s.Set(ctx, "users/anabel", domain.User{Username: "anabel"})
	docs, _ = s.List(ctx, "users/ana")
	if len(docs) != 1 {
		t.Fatalf("expected exact-segment prefix match, got %d docs", len(docs))
	}
}

func TestWatchNotifiesOnWrite(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s := New()

	events, stop, err := s.Watch(ctx, "leaderboard")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer stop()

	_ = s.Set(ctx, "users/ana", domain.User{Username: "ana"}) // outside prefix
	_ = s.Set(ctx, "leaderboard/ana/activity1", domain.LeaderboardEntry{Username: "ana", Score: 8})

	select {
	case ev := <-events:
		if ev.Path != "leaderboard/ana/activity1" {
			t.Fatalf("expected leaderboard event, got %s", ev.Path)
		}
	case <-ctx.Done():
		t.Fatalf("no event received")
	}
}
